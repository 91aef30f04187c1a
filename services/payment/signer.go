package payment

import (
	"encoding/base64"
	"time"
)

// timestampLayout renders the 14-digit YYYYMMDDHHMMSS form the gateway
// expects. The timestamp is recomputed for every signed request; the gateway
// rejects stale ones.
const timestampLayout = "20060102150405"

// Sign derives the time-boxed request password from the merchant shortcode,
// the passkey and the request time. Pure function: fixed inputs always yield
// the same password.
func Sign(shortcode, passkey string, t time.Time) (password, timestamp string) {
	timestamp = t.Format(timestampLayout)
	password = base64.StdEncoding.EncodeToString([]byte(shortcode + passkey + timestamp))
	return password, timestamp
}
