// Package dateutil содержит вспомогательные функции для календарной
// арифметики ядра: даты подписок и рецензий имеют точность в один день.
package dateutil

import "time"

// Today возвращает текущую дату по UTC с обнулённым временем.
func Today() time.Time {
	return Date(time.Now().UTC())
}

// Date отсекает время, оставляя календарную дату по UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween возвращает количество полных дней от from до to.
// Значение отрицательно, если to раньше from.
func DaysBetween(from, to time.Time) int {
	return int(Date(to).Sub(Date(from)) / (24 * time.Hour))
}
