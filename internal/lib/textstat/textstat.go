// Package textstat реализует подсчёт слов и предложений в тексте рецензии.
//
// Значения вычисляются один раз при отправке рецензии и сохраняются
// вместе с ней, поэтому правила подсчёта зафиксированы тестами.
package textstat

import (
	"regexp"
	"strings"
)

// sentenceSplit — разделитель предложений: серия из одного и более символов . ! ?
var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// CountWords возвращает количество токенов, разделённых пробельными символами,
// после отсечения пробелов по краям. Для пустой строки возвращает 0.
func CountWords(content string) int {
	return len(strings.Fields(content))
}

// CountSentences возвращает количество сегментов при разбиении текста
// по сериям символов . ! ?. Хвостовые пустые сегменты отбрасываются,
// ведущие — учитываются: текст из одних знаков препинания даёт 0,
// текст без знаков препинания — 1.
func CountSentences(content string) int {
	parts := sentenceSplit.Split(content, -1)
	n := len(parts)
	for n > 0 && parts[n-1] == "" {
		n--
	}
	return n
}
