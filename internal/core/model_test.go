package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		label string
		want  Category
	}{
		{"Interested", CategoryInterested},
		{"Not Interested", CategoryNotInterested},
		{"More Information", CategoryMoreInformation},
		{"interested", CategoryInterested},
		{"NOT INTERESTED", CategoryNotInterested},
		{"  More Information \n", CategoryMoreInformation},
		{"Maybe", CategoryUnknown},
		{"Interested.", CategoryUnknown},
		{"", CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCategory(tt.label))
		})
	}
}
