package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectPathArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"mandala"},
			want: []string{"mandala"},
		},
		{
			name: "path first token",
			in:   []string{"mandala", "3.5"},
			want: []string{"mandala", "show", "--path", "3.5"},
		},
		{
			name: "single block",
			in:   []string{"mandala", "0"},
			want: []string{"mandala", "show", "--path", "0"},
		},
		{
			name: "path after value flag",
			in:   []string{"mandala", "--dir", "./tmp-test-ws", "0.2"},
			want: []string{"mandala", "--dir", "./tmp-test-ws", "show", "--path", "0.2"},
		},
		{
			name: "path after equals flag",
			in:   []string{"mandala", "--dir=./tmp-test-ws", "7.7"},
			want: []string{"mandala", "--dir=./tmp-test-ws", "show", "--path", "7.7"},
		},
		{
			name: "path after bool flag",
			in:   []string{"mandala", "--pretty", "1"},
			want: []string{"mandala", "--pretty", "show", "--path", "1"},
		},
		{
			name: "path after double dash",
			in:   []string{"mandala", "--dir", "./tmp-test-ws", "--", "4.1"},
			want: []string{"mandala", "--dir", "./tmp-test-ws", "show", "--path", "4.1"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"mandala", "enter", "3"},
			want: []string{"mandala", "enter", "3"},
		},
		{
			name: "out of range block not rewritten",
			in:   []string{"mandala", "8"},
			want: []string{"mandala", "8"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"mandala", "wat"},
			want: []string{"mandala", "wat"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectPathArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectPathArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
