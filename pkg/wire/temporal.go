package wire

import (
	"fmt"
	"time"

	"github.com/mdwire/mdwire-go/pkg/byteorder"
)

// Date is a calendar date. The zero Date is blank.
type Date struct {
	Year  uint16
	Month uint8
	Day   uint8
}

// IsBlank returns true for the zero date.
func (d Date) IsBlank() bool {
	return d == Date{}
}

// DateOf returns the calendar date of t.
func DateOf(t time.Time) Date {
	return Date{Year: uint16(t.Year()), Month: uint8(t.Month()), Day: uint8(t.Day())}
}

func (d Date) String() string {
	if d.IsBlank() {
		return "blank"
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) validate() error {
	if d.IsBlank() {
		return nil
	}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return fmt.Errorf("%w: date %s", ErrValueRange, d)
	}
	return nil
}

// Time is a time of day. Blank marks an absent time, distinct from midnight.
type Time struct {
	Hour        uint8
	Minute      uint8
	Second      uint8
	Millisecond uint16
	Microsecond uint16
	Nanosecond  uint16
	Blank       bool
}

// BlankTime is the blank time of day.
var BlankTime = Time{Blank: true}

// TimeOf returns the time of day of t.
func TimeOf(t time.Time) Time {
	ns := t.Nanosecond()
	return Time{
		Hour:        uint8(t.Hour()),
		Minute:      uint8(t.Minute()),
		Second:      uint8(t.Second()),
		Millisecond: uint16(ns / 1e6),
		Microsecond: uint16(ns / 1e3 % 1000),
		Nanosecond:  uint16(ns % 1000),
	}
}

func (t Time) String() string {
	if t.Blank {
		return "blank"
	}
	return fmt.Sprintf("%02d:%02d:%02d.%03d%03d%03d", t.Hour, t.Minute, t.Second,
		t.Millisecond, t.Microsecond, t.Nanosecond)
}

func (t Time) validate() error {
	if t.Blank {
		return nil
	}
	if t.Hour > 23 || t.Minute > 59 || t.Second > 60 ||
		t.Millisecond > 999 || t.Microsecond > 999 || t.Nanosecond > 999 {
		return fmt.Errorf("%w: time %s", ErrValueRange, t)
	}
	return nil
}

// DateTime is a Date followed by a Time on the wire.
type DateTime struct {
	Date Date
	Time Time
}

// DateTimeOf splits t into its date and time of day.
func DateTimeOf(t time.Time) DateTime {
	return DateTime{Date: DateOf(t), Time: TimeOf(t)}
}

// GoTime converts a DateTime to a UTC time.Time.
func (dt DateTime) GoTime() time.Time {
	t := dt.Time
	if t.Blank {
		t = Time{}
	}
	ns := int(t.Millisecond)*1e6 + int(t.Microsecond)*1e3 + int(t.Nanosecond)
	return time.Date(int(dt.Date.Year), time.Month(dt.Date.Month), int(dt.Date.Day),
		int(t.Hour), int(t.Minute), int(t.Second), ns, time.UTC)
}

func (dt DateTime) String() string {
	return dt.Date.String() + "T" + dt.Time.String()
}

// Date payload length; a blank date has an empty payload.
const dateLen = 4

// DateSize returns the encoded size of d, length byte included.
func DateSize(d Date) int {
	if d.IsBlank() {
		return 1
	}
	return 1 + dateLen
}

// PutDate writes [length][day][month][year16].
func PutDate(dst []byte, d Date) (int, error) {
	if err := d.validate(); err != nil {
		return 0, err
	}
	n := DateSize(d)
	if len(dst) < n {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferOverrun, n, len(dst))
	}
	dst[0] = byte(n - 1)
	if n > 1 {
		dst[1] = d.Day
		dst[2] = d.Month
		byteorder.Put16(dst[3:], d.Year)
	}
	return n, nil
}

// GetDate decodes a date.
func GetDate(src []byte) (Date, int, error) {
	if len(src) < 1 {
		return Date{}, 0, fmt.Errorf("%w: missing date length", ErrBufferUnderrun)
	}
	switch l := int(src[0]); l {
	case 0:
		return Date{}, 1, nil
	case dateLen:
		if len(src) < 1+dateLen {
			return Date{}, 0, fmt.Errorf("%w: date, have %d", ErrBufferUnderrun, len(src)-1)
		}
		return Date{Day: src[1], Month: src[2], Year: byteorder.Get16(src[3:])}, 1 + dateLen, nil
	default:
		return Date{}, 0, fmt.Errorf("%w: date length %d", ErrMalformedLength, l)
	}
}

// Time payload lengths: hour+minute, +second, +millisecond, +microsecond, +nanosecond.
var timeLens = [...]int{2, 3, 5, 7, 9}

// timeLen drops trailing zero fields.
func timeLen(t Time) int {
	switch {
	case t.Blank:
		return 0
	case t.Nanosecond != 0:
		return 9
	case t.Microsecond != 0:
		return 7
	case t.Millisecond != 0:
		return 5
	case t.Second != 0:
		return 3
	default:
		return 2
	}
}

// TimeSize returns the encoded size of t, length byte included.
func TimeSize(t Time) int {
	return 1 + timeLen(t)
}

// PutTime writes the shortest [length][hour][minute][second][ms16][us16][ns16]
// prefix that carries every non-zero field.
func PutTime(dst []byte, t Time) (int, error) {
	if err := t.validate(); err != nil {
		return 0, err
	}
	l := timeLen(t)
	if len(dst) < 1+l {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferOverrun, 1+l, len(dst))
	}
	dst[0] = byte(l)
	if l == 0 {
		return 1, nil
	}
	dst[1] = t.Hour
	dst[2] = t.Minute
	if l >= 3 {
		dst[3] = t.Second
	}
	if l >= 5 {
		byteorder.Put16(dst[4:], t.Millisecond)
	}
	if l >= 7 {
		byteorder.Put16(dst[6:], t.Microsecond)
	}
	if l >= 9 {
		byteorder.Put16(dst[8:], t.Nanosecond)
	}
	return 1 + l, nil
}

// GetTime decodes a time of day.
func GetTime(src []byte) (Time, int, error) {
	if len(src) < 1 {
		return Time{}, 0, fmt.Errorf("%w: missing time length", ErrBufferUnderrun)
	}
	l := int(src[0])
	if l == 0 {
		return BlankTime, 1, nil
	}
	valid := false
	for _, tl := range timeLens {
		valid = valid || tl == l
	}
	if !valid {
		return Time{}, 0, fmt.Errorf("%w: time length %d", ErrMalformedLength, l)
	}
	if len(src) < 1+l {
		return Time{}, 0, fmt.Errorf("%w: time length %d, have %d", ErrBufferUnderrun, l, len(src)-1)
	}
	t := Time{Hour: src[1], Minute: src[2]}
	if l >= 3 {
		t.Second = src[3]
	}
	if l >= 5 {
		t.Millisecond = byteorder.Get16(src[4:])
	}
	if l >= 7 {
		t.Microsecond = byteorder.Get16(src[6:])
	}
	if l >= 9 {
		t.Nanosecond = byteorder.Get16(src[8:])
	}
	return t, 1 + l, nil
}

// DateTimeSize returns the encoded size of dt.
func DateTimeSize(dt DateTime) int {
	return DateSize(dt.Date) + TimeSize(dt.Time)
}

// PutDateTime writes the date then the time.
func PutDateTime(dst []byte, dt DateTime) (int, error) {
	if err := dt.Date.validate(); err != nil {
		return 0, err
	}
	if err := dt.Time.validate(); err != nil {
		return 0, err
	}
	if n := DateTimeSize(dt); len(dst) < n {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferOverrun, n, len(dst))
	}
	n, err := PutDate(dst, dt.Date)
	if err != nil {
		return 0, err
	}
	m, err := PutTime(dst[n:], dt.Time)
	if err != nil {
		return 0, err
	}
	return n + m, nil
}

// GetDateTime decodes a date followed by a time.
func GetDateTime(src []byte) (DateTime, int, error) {
	d, n, err := GetDate(src)
	if err != nil {
		return DateTime{}, 0, err
	}
	t, m, err := GetTime(src[n:])
	if err != nil {
		return DateTime{}, 0, err
	}
	return DateTime{Date: d, Time: t}, n + m, nil
}
