package utils

import (
	"reflect"
	"testing"
)

func TestFilterLinkLocal(t *testing.T) {
	tests := []struct {
		in, want []string
	}{
		{[]string{"169.254.3.4", "192.168.1.20"}, []string{"192.168.1.20"}},
		{[]string{"169.254.3.4"}, []string{"169.254.3.4"}},
		{[]string{"10.0.0.5", "172.16.0.2"}, []string{"10.0.0.5", "172.16.0.2"}},
	}
	for _, tt := range tests {
		if got := filterLinkLocal(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("filterLinkLocal(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := filterLinkLocal(nil); len(got) != 0 {
		t.Errorf("nil input = %v", got)
	}
}
