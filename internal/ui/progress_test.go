package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func plainUI() *UI {
	return &UI{IsTTY: false, Width: 80, NoColor: true}
}

func styledUI() *UI {
	return &UI{IsTTY: true, Width: 80, NoColor: false}
}

func TestStepBarPlain(t *testing.T) {
	u := plainUI()
	var buf bytes.Buffer

	bar := u.NewStepBar("Indexes", 3)
	bar.SetOutput(&buf)

	for i := 0; i < 3; i++ {
		bar.Advance()
	}
	bar.Complete()

	out := buf.String()
	if !strings.Contains(out, "Indexes (3 steps)") {
		t.Errorf("Expected announcement line, got %q", out)
	}
	if strings.Count(out, "Indexes (3 steps)") != 1 {
		t.Errorf("Expected a single announcement line, got %q", out)
	}
	if !strings.Contains(out, "3/3 done") {
		t.Errorf("Expected completion line, got %q", out)
	}
}

func TestStepBarStyled(t *testing.T) {
	u := styledUI()
	var buf bytes.Buffer

	bar := u.NewStepBar("Indexes", 2)
	bar.SetOutput(&buf)

	bar.Advance()
	if !strings.Contains(buf.String(), "1/2") {
		t.Errorf("Expected 1/2 counter, got %q", buf.String())
	}

	bar.Advance()
	bar.Complete()
	if !strings.Contains(buf.String(), "2/2 complete") {
		t.Errorf("Expected completion counter, got %q", buf.String())
	}
}

func TestStepBarClampsAtTotal(t *testing.T) {
	u := styledUI()
	var buf bytes.Buffer

	bar := u.NewStepBar("Indexes", 1)
	bar.SetOutput(&buf)

	bar.Advance()
	bar.Advance()

	if bar.done != 1 {
		t.Errorf("Expected done clamped to 1, got %d", bar.done)
	}
}

func TestStepBarZeroTotal(t *testing.T) {
	u := styledUI()
	var buf bytes.Buffer

	bar := u.NewStepBar("Indexes", 0)
	bar.SetOutput(&buf)

	bar.Advance()
	bar.Complete()

	if !strings.Contains(buf.String(), "0/0 complete") {
		t.Errorf("Expected 0/0 completion, got %q", buf.String())
	}
}

func TestStepBarFail(t *testing.T) {
	for name, u := range map[string]*UI{"plain": plainUI(), "styled": styledUI()} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			bar := u.NewStepBar("Indexes", 5)
			bar.SetOutput(&buf)

			bar.Advance()
			bar.Fail(errors.New("disk full"))

			if !strings.Contains(buf.String(), "disk full") {
				t.Errorf("Expected error message in output, got %q", buf.String())
			}
		})
	}
}
