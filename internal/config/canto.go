package config

import (
	"fmt"
	"strconv"
	"strings"
)

// maxRoman is the largest canto number written with I, V and X alone.
const maxRoman = 39

// Roman renders n (1 to 39) as a roman numeral. Other values are rendered
// in decimal.
func Roman(n int) string {
	if n < 1 || n > maxRoman {
		return strconv.Itoa(n)
	}
	var b strings.Builder
	b.WriteString(strings.Repeat("X", n/10))
	b.WriteString([]string{"", "I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX"}[n%10])
	return b.String()
}

// ParseRoman parses a canonical roman numeral between I and XXXIX.
func ParseRoman(s string) (int, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	values := map[byte]int{'I': 1, 'V': 5, 'X': 10}
	total := 0
	for i := 0; i < len(s); i++ {
		v, ok := values[s[i]]
		if !ok {
			return 0, fmt.Errorf("invalid roman number: %s", s)
		}
		if i+1 < len(s) && values[s[i+1]] > v {
			total -= v
		} else {
			total += v
		}
	}
	if total < 1 || total > maxRoman || Roman(total) != s {
		return 0, fmt.Errorf("invalid roman number: %s", s)
	}
	return total, nil
}

// ParseCanto accepts a canto number in decimal or roman notation and checks
// it against the configured cantica.
func (c *Config) ParseCanto(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		if n, err = ParseRoman(s); err != nil {
			return 0, fmt.Errorf("canto %q is neither a number nor a roman numeral", s)
		}
	}
	if count := c.CantoCount(); n < 1 || n > count {
		return 0, fmt.Errorf("canto %d out of range for %s (1-%d)", n, c.Corpus.Cantica, count)
	}
	return n, nil
}
