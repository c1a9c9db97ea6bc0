package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/alexanderramin/pipeline/internal/filter"
	"github.com/spf13/pflag"
)

// displayKindValue is a --mode flag restricted to the known display kinds.
type displayKindValue domain.DisplayKind

var _ pflag.Value = (*displayKindValue)(nil)

func (v *displayKindValue) String() string {
	if *v == "" {
		return "natural"
	}
	return string(*v)
}

func (v *displayKindValue) Set(s string) error {
	switch k := domain.DisplayKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "natural", domain.DisplayNatural:
		*v = displayKindValue(domain.DisplayNatural)
	case domain.DisplayOldest, domain.DisplayNewest, domain.DisplayLabel, domain.DisplayDateRange:
		*v = displayKindValue(k)
	default:
		return fmt.Errorf("must be natural, oldest, newest, label or date_range")
	}
	return nil
}

func (v *displayKindValue) Type() string { return "mode" }

// cardOrderValue is the --order flag of the board-wide card filter.
type cardOrderValue filter.CardOrder

var _ pflag.Value = (*cardOrderValue)(nil)

func (v *cardOrderValue) String() string { return string(*v) }

func (v *cardOrderValue) Set(s string) error {
	o, err := filter.ParseCardOrder(strings.ToLower(s))
	if err != nil {
		return fmt.Errorf("must be oldest or newest")
	}
	*v = cardOrderValue(o)
	return nil
}

func (v *cardOrderValue) Type() string { return "order" }

// dateValue is an optional YYYY-MM-DD flag. An unset flag leaves the
// pointer nil.
type dateValue struct {
	t **time.Time
}

var _ pflag.Value = dateValue{}

func (v dateValue) String() string {
	if v.t == nil || *v.t == nil {
		return ""
	}
	return (*v.t).Format("2006-01-02")
}

func (v dateValue) Set(s string) error {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	*v.t = &t
	return nil
}

func (v dateValue) Type() string { return "date" }

// endOfDay moves t to the last instant of its day so a date range bound
// includes the whole day.
func endOfDay(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return &end
}

// stringFlagPtr returns a pointer to the flag's value when the flag was set,
// so patches only touch fields the user named.
func stringFlagPtr(flags *pflag.FlagSet, name string) *string {
	if !flags.Changed(name) {
		return nil
	}
	v, _ := flags.GetString(name)
	return &v
}
