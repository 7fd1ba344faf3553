package extractor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateOrder is the field order of a date as written in the export.
type DateOrder string

const (
	OrderMDY  DateOrder = "mdy"
	OrderDMY  DateOrder = "dmy"
	OrderYMD  DateOrder = "ymd"
	OrderAuto DateOrder = "auto"
)

// DefaultDateOrder is month first, the reading of an ambiguous date such as
// 01/02/23 when neither the export nor the locale says otherwise.
const DefaultDateOrder = OrderMDY

var dateLayouts = map[DateOrder][]string{
	OrderMDY: {"1/2/06", "1/2/2006"},
	OrderDMY: {"2/1/06", "2/1/2006"},
	OrderYMD: {"2006/1/2", "06/1/2"},
}

var timeLayouts = []string{"15:04", "15:04:05"}

var dateSeparators = strings.NewReplacer(".", "/", "-", "/")

// ParseDateOrder validates a date order name.
func ParseDateOrder(s string) (DateOrder, error) {
	switch o := DateOrder(strings.ToLower(s)); o {
	case OrderMDY, OrderDMY, OrderYMD, OrderAuto:
		return o, nil
	case "":
		return OrderAuto, nil
	default:
		return "", fmt.Errorf("invalid date order %q (must be mdy, dmy, ymd or auto)", s)
	}
}

// ParseDateTime combines a date and a time into one instant (UTC).
func ParseDateTime(date, clock string, order DateOrder) (time.Time, error) {
	layouts, ok := dateLayouts[order]
	if !ok {
		return time.Time{}, fmt.Errorf("no layouts for date order %q", order)
	}

	value := dateSeparators.Replace(strings.TrimSpace(date)) + " " + strings.TrimSpace(clock)
	var lastErr error
	for _, dl := range layouts {
		for _, tl := range timeLayouts {
			t, err := time.Parse(dl+" "+tl, value)
			if err == nil {
				return t, nil
			}
			lastErr = err
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date-time %q: %w", value, lastErr)
}

// ParseHour returns the hour from the leading digits of a time such as "09:30".
func ParseHour(clock string) (int, error) {
	h, _, _ := strings.Cut(strings.TrimSpace(clock), ":")
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", clock, err)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("hour %d out of range in %q", hour, clock)
	}
	return hour, nil
}

// InferDateOrder guesses the date order from a sample of dates. A four-digit
// first field means year first; a first field above 12 means day first; a
// second field above 12 means month first. ambiguous is true when the sample
// gives no evidence, or contradicting evidence, and the result is a guess.
func InferDateOrder(dates []string) (order DateOrder, ambiguous bool) {
	return inferDateOrder(dates, DefaultDateOrder)
}

// inferDateOrder is InferDateOrder with the order to assume when the sample
// has no evidence either way.
func inferDateOrder(dates []string, fallback DateOrder) (DateOrder, bool) {
	var ymd, dmy, mdy int
	for _, d := range dates {
		parts := strings.Split(dateSeparators.Replace(strings.Trim(d, "[] ")), "/")
		if len(parts) != 3 {
			continue
		}
		if len(parts[0]) == 4 {
			ymd++
			continue
		}
		first, err1 := strconv.Atoi(parts[0])
		second, err2 := strconv.Atoi(parts[1])
		if err := errors.Join(err1, err2); err != nil {
			continue
		}
		switch {
		case first > 12:
			dmy++
		case second > 12:
			mdy++
		}
	}

	switch {
	case ymd > 0 && dmy == 0 && mdy == 0:
		return OrderYMD, false
	case dmy > 0 && mdy == 0:
		return OrderDMY, false
	case mdy > 0 && dmy == 0:
		return OrderMDY, false
	case dmy > mdy:
		return OrderDMY, true
	case mdy > dmy:
		return OrderMDY, true
	default:
		return fallback, true
	}
}
