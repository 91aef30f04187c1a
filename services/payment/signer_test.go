package payment

import (
	"encoding/base64"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignIsDeterministic(t *testing.T) {
	at := time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)

	p1, ts1 := Sign("174379", "passkey", at)
	p2, ts2 := Sign("174379", "passkey", at)

	assert.Equal(t, p1, p2)
	assert.Equal(t, ts1, ts2)
}

func TestSignTimestampFormat(t *testing.T) {
	_, ts := Sign("174379", "passkey", time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC))

	assert.Regexp(t, regexp.MustCompile(`^\d{14}$`), ts)
	assert.Equal(t, "20240115103045", ts)
}

func TestSignVariesWithTimestamp(t *testing.T) {
	p1, _ := Sign("174379", "passkey", time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC))
	p2, _ := Sign("174379", "passkey", time.Date(2024, 1, 15, 10, 30, 46, 0, time.UTC))

	assert.NotEqual(t, p1, p2)
}

func TestSignEncodesConcatenation(t *testing.T) {
	password, ts := Sign("174379", "secretpasskey", time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC))

	decoded, err := base64.StdEncoding.DecodeString(password)
	require.NoError(t, err)
	assert.Equal(t, "174379"+"secretpasskey"+ts, string(decoded))
}
