// Пакет format — чистые функции форматирования для рендеринга страниц:
// экранирование HTML, разбор и форматирование дат, разница в днях.
package format

import (
	"math"
	"regexp"
	"strings"
	"time"
)

// DateLayout — формат календарной даты в формах и запросах к backend (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// htmlReplacer заменяет символы, опасные для встраивания в HTML (текст и атрибуты).
var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape экранирует строку для безопасного встраивания в HTML-разметку.
// Пустая строка остаётся пустой.
func Escape(text string) string {
	if text == "" {
		return ""
	}
	return htmlReplacer.Replace(text)
}

// Форматы «только дата» — интерпретируются как календарная дата в зоне loc.
var dateOnlyLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-1-2",
	"2006/1/2",
}

// Форматы с временем — момент времени, переводится в зону loc.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 2 2006 15:04:05 GMT-0700",
}

// Форматы с временем без зоны — время в зоне loc.
var localTimestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006/1/2 15:04:05",
}

// jsZoneSuffix — хвост вида " (Taipei Standard Time)" из Date.toString().
var jsZoneSuffix = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// ParseDate разбирает значение даты из формы или ответа backend.
// Возвращает false, если значение пустое или не распознано.
func ParseDate(value string, loc *time.Location) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range dateOnlyLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, true
		}
	}

	stripped := jsZoneSuffix.ReplaceAllString(v, "")
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, stripped); err == nil {
			return t.In(loc), true
		}
	}

	for _, layout := range localTimestampLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// FormatDate форматирует значение даты по layout локали (например "2006/1/2").
// Нераспознанное значение возвращается без изменений, пустое — пустой строкой.
func FormatDate(value, layout string, loc *time.Location) string {
	if value == "" {
		return ""
	}
	t, ok := ParseDate(value, loc)
	if !ok {
		return value
	}
	return t.Format(layout)
}

// DaysBetween возвращает число целых календарных дней от from до to.
// Отрицательно, если to раньше from. Каждая дата берётся в своей зоне.
func DaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(math.Floor(b.Sub(a).Hours() / 24))
}

// Today возвращает текущую календарную дату в зоне loc в формате YYYY-MM-DD.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return now.In(loc).Format(DateLayout)
}
