package domain

// EncryptedField is the unit exchanged with the storage layer: the id of the
// key that sealed the payload and the payload itself. The two values are stored
// in adjacent columns and must always be read and written together.
//
// A KeyID equal to LegacyKeyID marks a value written before field encryption
// existed; its Payload is the plaintext.
type EncryptedField struct {
	KeyID   string
	Payload string
}

// LegacyField wraps a plaintext value that has not been encrypted yet.
func LegacyField(plaintext string) EncryptedField {
	return EncryptedField{KeyID: LegacyKeyID, Payload: plaintext}
}

// IsLegacy reports whether the field still holds a legacy plaintext value.
func (f EncryptedField) IsLegacy() bool {
	return f.KeyID == LegacyKeyID || f.KeyID == ""
}
