package model

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay представляет время суток с точностью до минуты.
// Используется вместо "сырых" строк, чтобы исключить молчаливые
// дефолты при разборе времени из БД и от клиента.
type TimeOfDay struct {
	Hour   int `json:"hour"`   // 0-23
	Minute int `json:"minute"` // 0-59
}

// ParseTimeOfDay разбирает строку в формате HH:mm или HH:mm:ss.
// Секунды принимаются (так возвращает колонка time в PostgreSQL), но отбрасываются.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:mm or HH:mm:ss", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: bad hour", s)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: bad minute", s)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: out of range", s)
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// String возвращает время в каноничном виде HH:mm
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// DBString возвращает время в виде HH:mm:ss для колонки time
func (t TimeOfDay) DBString() string {
	return fmt.Sprintf("%02d:%02d:00", t.Hour, t.Minute)
}

// Minutes возвращает количество минут с начала суток
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// AddMinutes возвращает время через m минут.
// ok == false если результат выходит за пределы суток.
func (t TimeOfDay) AddMinutes(m int) (TimeOfDay, bool) {
	total := t.Minutes() + m
	if total < 0 || total > 24*60 {
		return TimeOfDay{}, false
	}
	return TimeOfDay{Hour: total / 60, Minute: total % 60}, true
}

// Before проверяет что t раньше other
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// Equal проверяет совпадение с точностью до минуты
func (t TimeOfDay) Equal(other TimeOfDay) bool {
	return t.Minutes() == other.Minutes()
}
