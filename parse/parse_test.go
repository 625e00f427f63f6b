package parse

import (
	"bytes"
	"testing"

	"github.com/fumin/sym/parse/scan"
)

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  string
	}{
		{"a+b*c", "(a+(b*c))"},
		{"a*b+c", "((a*b)+c)"},
		{"a^2*b", "((a^2)*b)"},
		{"(a+b)*c", "((a+b)*c)"},
		{"2(a+b)", "(2*(a+b))"},
		{"-a+b", "((0-a)+b)"},
		{"a/b/c", "((a/b)/c)"},
		{"x*(1+a)+x*5*y", "((x*(1+a))+((x*5)*y))"},
	}
	for i, test := range tests {
		n, err := Parse(scan.NewScanner(bytes.NewBufferString(test.input)))
		if err != nil {
			t.Fatalf("%d %+v", i, err)
		}
		if got := Tree(n); got != test.want {
			t.Fatalf("%d: %q -> %q, want %q", i, test.input, got, test.want)
		}
	}
}
