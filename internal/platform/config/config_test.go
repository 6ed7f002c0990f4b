package config

import (
	"strconv"
	"testing"
	"time"

	kit "timeslider/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	ts := New().Prefix("TIMESLIDER_")
	if got := ts.key("DATE"); got != "TIMESLIDER_DATE" {
		t.Fatalf("key() = %q, want %q", got, "TIMESLIDER_DATE")
	}
	attr := ts.Prefix("ATTR_")
	if got := attr.key("ID"); got != "TIMESLIDER_ATTR_ID" {
		t.Fatalf("nested key() = %q, want %q", got, "TIMESLIDER_ATTR_ID")
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("TS_")
	t.Setenv("TS_SOURCE_NAME", "  osm ")
	if got := c.MustString("SOURCE_NAME"); got != "osm" {
		t.Fatalf("MustString = %q, want %q", got, "osm")
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestRequire(t *testing.T) {
	c := New().Prefix("REQ_")
	t.Setenv("REQ_A", "x")
	t.Setenv("REQ_B", "y")
	c.Require("A", "B")
	kit.MustPanic(t, func() { c.Require("A", "C") })

	t.Setenv("REQ_WS", "   ")
	kit.MustPanic(t, func() { c.Require("WS") })
}

func TestMayString(t *testing.T) {
	c := New().Prefix("S_")
	if got := c.MayString("MISSING", "def"); got != "def" {
		t.Fatalf("MayString default = %q, want %q", got, "def")
	}
	t.Setenv("S_STYLE_PATH", " ./style.json ")
	if got := c.MayString("STYLE_PATH", "x"); got != "./style.json" {
		t.Fatalf("MayString value = %q", got)
	}
}

func TestMayInt(t *testing.T) {
	c := New().Prefix("I_")
	if got := c.MayInt("MISSING", 9); got != 9 {
		t.Fatalf("MayInt default = %d, want %d", got, 9)
	}
	t.Setenv("I_OK", " -400 ")
	if got := c.MayInt("OK", 0); got != -400 {
		t.Fatalf("MayInt ok = %d, want %d", got, -400)
	}
	t.Setenv("I_BAD", "x")
	if got := c.MayInt("BAD", 3); got != 3 {
		t.Fatalf("MayInt bad -> default = %d, want %d", got, 3)
	}
}

func TestParse(t *testing.T) {
	c := New().Prefix("P_")
	year := func(s string) (int, error) { return strconv.Atoi(s) }

	got, err := Parse(c, "MISSING", year)
	if got != nil || err != nil {
		t.Fatalf("missing = %v, %v", got, err)
	}
	t.Setenv("P_DATE", " 1850 ")
	if got, err := Parse(c, "DATE", year); err != nil || got == nil || *got != 1850 {
		t.Fatalf("DATE = %v, %v", got, err)
	}
	t.Setenv("P_BAD", "1850.5")
	if got, err := Parse(c, "BAD", year); err == nil || got != nil {
		t.Fatalf("BAD = %v, %v; want the parse error", got, err)
	}
}

func TestMayBool(t *testing.T) {
	c := New().Prefix("B_")
	if got := c.MayBool("MISSING", true); got != true {
		t.Fatalf("MayBool default true expected")
	}
	t.Setenv("B_T", "true")
	if got := c.MayBool("T", false); got != true {
		t.Fatalf("MayBool true expected")
	}
	t.Setenv("B_BAD", "nope")
	if got := c.MayBool("BAD", false); got != false {
		t.Fatalf("MayBool bad -> default false expected")
	}
	if c.MayBoolPtr("MISSING") != nil {
		t.Fatalf("MayBoolPtr missing should be nil")
	}
	t.Setenv("B_F", "0")
	if got := c.MayBoolPtr("F"); got == nil || *got {
		t.Fatalf("MayBoolPtr(0) = %v, want false", got)
	}
}

func TestMayDuration(t *testing.T) {
	c := New().Prefix("DUR_")
	if got := c.MayDuration("MISS", 5*time.Second); got != 5*time.Second {
		t.Fatalf("MayDuration default expected")
	}
	t.Setenv("DUR_OK", "250ms")
	if got := c.MayDuration("OK", time.Second); got != 250*time.Millisecond {
		t.Fatalf("MayDuration ok = %v, want %v", got, 250*time.Millisecond)
	}
	t.Setenv("DUR_BAD", "nope")
	if got := c.MayDuration("BAD", time.Minute); got != time.Minute {
		t.Fatalf("MayDuration bad -> default expected")
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CSV_")
	def := []string{"*"}
	if got := c.MayCSV("MISS", def); len(got) != 1 || got[0] != "*" {
		t.Fatalf("MayCSV default mismatch: %#v", got)
	}
	t.Setenv("CSV_ORIGINS", " http://a, http://b , ,")
	got := c.MayCSV("ORIGINS", nil)
	if len(got) != 2 || got[0] != "http://a" || got[1] != "http://b" {
		t.Fatalf("MayCSV = %#v", got)
	}
	t.Setenv("CSV_EMPTY", " , , ")
	if got := c.MayCSV("EMPTY", def); len(got) != 1 || got[0] != "*" {
		t.Fatalf("MayCSV all-empty -> default mismatch: %#v", got)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("E_")
	if got := c.MayEnum("MISS", "json", "json", "yaml"); got != "json" {
		t.Fatalf("MayEnum default = %q, want %q", got, "json")
	}
	t.Setenv("E_FMT", "YAML")
	if got := c.MayEnum("FMT", "json", "json", "yaml"); got != "YAML" {
		t.Fatalf("MayEnum allowed value = %q", got)
	}
	t.Setenv("E_BAD", "xml")
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "json", "json", "yaml") })
}
