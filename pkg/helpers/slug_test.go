package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Running Shoes":         "running-shoes",
		"  Café  Crème ":        "cafe-creme",
		"Men's T-Shirts & Tops": "men-s-t-shirts-tops",
		"---":                   "",
		"USB-C 3.1 Cable":       "usb-c-3-1-cable",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}
