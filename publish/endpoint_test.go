package publish

import (
	"testing"
	"time"

	"github.com/relex/zmqlogwriter/base"
	"github.com/stretchr/testify/assert"
)

func TestResolveEndpoint(t *testing.T) {
	defaults := DefaultEndpoint()

	ep, err := ResolveEndpoint(defaults, nil)
	assert.NoError(t, err)
	assert.Equal(t, "tcp://localhost:5556", ep.Address())

	ep, err = ResolveEndpoint(defaults, map[string]string{"hostname": "", "port": ""})
	assert.NoError(t, err)
	assert.Equal(t, defaults, ep)

	ep, err = ResolveEndpoint(defaults, map[string]string{"hostname": "10.0.0.5", "port": "6000"})
	assert.NoError(t, err)
	assert.Equal(t, "tcp://10.0.0.5:6000", ep.Address())

	ep, err = ResolveEndpoint(defaults, map[string]string{"hostname": "collector"})
	assert.NoError(t, err)
	assert.Equal(t, "tcp://collector:5556", ep.Address())

	ep, err = ResolveEndpoint(defaults, map[string]string{"port": "7000", "linger": "250ms"})
	assert.NoError(t, err)
	assert.Equal(t, "tcp://localhost:7000", ep.Address())
	assert.Equal(t, 250*time.Millisecond, ep.Linger)
}

func TestResolveEndpointInvalid(t *testing.T) {
	defaults := DefaultEndpoint()

	for _, port := range []string{"abc", "0", "65536", "-1", " 80"} {
		_, err := ResolveEndpoint(defaults, map[string]string{"port": port})
		var cerr *base.ConfigError
		if assert.ErrorAs(t, err, &cerr, port) {
			assert.Equal(t, "port", cerr.Key)
			assert.Equal(t, port, cerr.Value)
		}
	}

	_, err := ResolveEndpoint(defaults, map[string]string{"linger": "-1s"})
	assert.EqualError(t, err, "config 'linger'='-1s': must not be negative")

	_, err = ResolveEndpoint(base.Endpoint{Port: 5556}, nil)
	assert.EqualError(t, err, "config 'hostname'='': no hostname in config or defaults")
}

func TestParsePort(t *testing.T) {
	port, err := ParsePort("65535")
	assert.NoError(t, err)
	assert.Equal(t, uint16(65535), port)

	_, err = ParsePort("")
	assert.EqualError(t, err, "must be an integer between 1 and 65535")
}
