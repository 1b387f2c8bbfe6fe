package crypto

import "encoding/base64"

// ToBase64 encodes data as padded standard base64, the sealed message
// wire encoding.
func ToBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// decoders are tried in order by DecodeBase64. Padded standard comes first
// since that is what ToBase64 emits.
var decoders = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// DecodeBase64 accepts standard or URL-safe base64, padded or not. The
// error of the last alphabet tried is returned when none fits.
func DecodeBase64(s string) ([]byte, error) {
	var err error
	for _, enc := range decoders {
		var data []byte
		if data, err = enc.DecodeString(s); err == nil {
			return data, nil
		}
	}
	return nil, err
}
