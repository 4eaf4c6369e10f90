package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixed2(t *testing.T) {
	cases := map[float64]string{
		0:         "0.00",
		0.125:     "0.13",
		1.005:     "1.01",
		2.675:     "2.68",
		60000:     "60000.00",
		499995:    "499995.00",
		-0.125:    "-0.13",
		123.4:     "123.40",
		999.99499: "999.99",
	}
	for in, want := range cases {
		assert.Equal(t, want, Fixed2(in), "Fixed2(%v)", in)
	}
}

func TestUnits(t *testing.T) {
	assert.Equal(t, "300.00 kWh", KWh(300))
	assert.Equal(t, "60000.00 COP", COP(60000))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, 512.35, Round2(512.345))
}
