package migration

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestNormalizeDate_Exceptions проверяет, что каждая строка из ручной
// таблицы исключений дает ровно сопоставленную дату и никакого fallback
func TestNormalizeDate_Exceptions(t *testing.T) {
	for raw, want := range dateExceptions {
		parsed, ok, fallback := NormalizeDate(raw)
		if !ok {
			t.Errorf("NormalizeDate(%q) failed, want %s", raw, want)
			continue
		}
		if fallback != "" {
			t.Errorf("NormalizeDate(%q) fallback = %q, want empty", raw, fallback)
		}
		if got := parsed.Format("2006-01-02"); got != want {
			t.Errorf("NormalizeDate(%q) = %s, want %s", raw, got, want)
		}
	}
}

// TestNormalizeDate_Patterns проверяет шаблонные форматы легаси-выгрузки
func TestNormalizeDate_Patterns(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"1934-07-29", date(1934, time.July, 29)},
		{"1934-7-9", date(1934, time.July, 9)},
		{"1899, 3 января", date(1899, time.January, 3)},
		{"1899, 3 январь", date(1899, time.January, 3)},
		{" 1905 , 14 сентября ", date(1905, time.September, 14)},
		{"1921 г., 3 марта", date(1921, time.March, 3)},
		{"12 апр. 1934", date(1934, time.April, 12)},
		{"1950. 7 мая", date(1950, time.May, 7)},
		{"29-07-1934", date(1934, time.July, 29)},
		{"7-1-1901", date(1901, time.January, 7)},
		// искаженные формы месяцев из выгрузки
		{"1950, 7 агуста", date(1950, time.August, 7)},
		{"1933, 2 дкабря", date(1933, time.December, 2)},
		{"1960, 11 июн", date(1960, time.June, 11)},
		{"1944, 5 нояб.", date(1944, time.November, 5)},
	}

	for _, tc := range cases {
		parsed, ok, fallback := NormalizeDate(tc.raw)
		if !ok {
			t.Errorf("NormalizeDate(%q) failed with fallback %q", tc.raw, fallback)
			continue
		}
		if !parsed.Equal(tc.want) {
			t.Errorf("NormalizeDate(%q) = %s, want %s", tc.raw, parsed.Format("2006-01-02"), tc.want.Format("2006-01-02"))
		}
	}
}

// TestNormalizeDate_Fallback нечитаемые строки деградируют в fallback,
// никогда не падают
func TestNormalizeDate_Fallback(t *testing.T) {
	cases := []string{
		"примерно 1930-е",
		"1934-13-45",    // форма ISO, но некорректная календарная дата
		"32-13-1934",    // день 32
		"1934, 31 июн",  // 31 июня не существует
		"июль 1934",
		"неизвестно",
	}

	for _, raw := range cases {
		parsed, ok, fallback := NormalizeDate(raw)
		if ok {
			t.Errorf("NormalizeDate(%q) = %s, want fallback", raw, parsed.Format("2006-01-02"))
			continue
		}
		if fallback != raw {
			t.Errorf("NormalizeDate(%q) fallback = %q, want original string", raw, fallback)
		}
	}
}

// TestNormalizeDate_ExceptionPrecedence таблица исключений имеет приоритет
// над шаблонами: "1968, 31января " не разобрался бы ни одним шаблоном
func TestNormalizeDate_ExceptionPrecedence(t *testing.T) {
	parsed, ok, fallback := NormalizeDate("1968, 31января ")
	if !ok || fallback != "" {
		t.Fatalf("NormalizeDate exception entry failed: ok=%v fallback=%q", ok, fallback)
	}
	if want := date(1968, time.January, 31); !parsed.Equal(want) {
		t.Errorf("NormalizeDate = %s, want 1968-01-31", parsed.Format("2006-01-02"))
	}
}
