package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0", "0", true},
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"+1", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got.String(), err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		m    Money
		want string
	}{
		{NewMoney(100), "$100.00"},
		{NewMoney(40.5), "$40.50"},
		{NewMoney(0), "$0.00"},
		{NewMoney(60).Sub(NewMoney(100)), "-$40.00"},
	}
	for _, tc := range cases {
		if got := tc.m.Format("$"); got != tc.want {
			t.Fatalf("expected %s, got %s", tc.want, got)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(NewMoney(40.5))
	if err != nil || string(b) != "40.5" {
		t.Fatalf("marshal: %s %v", b, err)
	}
	for _, in := range []string{`12.34`, `"12.34"`} {
		var m Money
		if err := json.Unmarshal([]byte(in), &m); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if !m.Equal(NewMoney(12.34)) {
			t.Fatalf("unmarshal %s: got %s", in, m.String())
		}
	}
}
