package domain

// ObfuscationKey is the constant byte every password byte is XORed with.
const ObfuscationKey byte = '2'

// Encode obfuscates text byte-wise. It is its own inverse: Decode(Encode(x)) == x.
// This is not encryption and provides no confidentiality.
func Encode(text string) string {
	return string(EncodeBytes([]byte(text)))
}

// Decode reverses Encode.
func Decode(obfuscated string) string {
	return string(DecodeBytes([]byte(obfuscated)))
}

// EncodeBytes returns a new slice with every byte XORed with ObfuscationKey.
func EncodeBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = c ^ ObfuscationKey
	}
	return out
}

// DecodeBytes reverses EncodeBytes.
func DecodeBytes(b []byte) []byte {
	return EncodeBytes(b)
}
