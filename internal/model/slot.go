package model

// Slot представляет дискретный интервал записи, вычисленный из шаблона.
// Слоты нигде не хранятся, это транзитное значение.
type Slot struct {
	Start TimeOfDay `json:"start_time"`
	End   TimeOfDay `json:"end_time"`
}
