package payment_gateway

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// HashEngine computes the gateway's SHA-512 request signatures and checks
// the reverse-order response signatures. The field order and the literal
// pipe runs are part of the gateway's fixed hash contract; changing either
// breaks interoperability with the live gateway.
type HashEngine struct {
	key  string
	salt string
}

func NewHashEngine(key, salt string) *HashEngine {
	return &HashEngine{key: key, salt: salt}
}

// SignRequest produces the checkout hash:
// key|txnid|amount|productinfo|firstname|email|udf1|udf2|udf3|udf4|udf5||||||salt
// The six trailing pipes are five reserved-but-unused slots. Missing udf
// values participate as empty strings; position is significant, never count.
func (h *HashEngine) SignRequest(txnid, amount, productinfo, firstname, email string, udf [5]string) string {
	fields := []string{
		h.key, txnid, amount, productinfo, firstname, email,
		udf[0], udf[1], udf[2], udf[3], udf[4],
		"", "", "", "", "",
		h.salt,
	}
	return hexDigest(strings.Join(fields, "|"))
}

// SignCommand produces the postservice hash key|command|var1|salt used by
// verify_payment and refund calls.
func (h *HashEngine) SignCommand(command, var1 string) string {
	return hexDigest(strings.Join([]string{h.key, command, var1, h.salt}, "|"))
}

// VerifyResponse checks the reverse-order response formula
// [additionalCharges|]salt|status||||||udf5|udf4|udf3|udf2|udf1|email|firstname|productinfo|amount|txnid|key
// against the claimed digest. Comparison is case-insensitive and
// constant-structure; any mismatch returns false, never an error.
func (h *HashEngine) VerifyResponse(status, email, firstname, productinfo, amount, txnid string, udf [5]string, claimedDigest, additionalCharges string) bool {
	fields := []string{
		h.salt, status,
		"", "", "", "", "",
		udf[4], udf[3], udf[2], udf[1], udf[0],
		email, firstname, productinfo, amount, txnid, h.key,
	}
	sequence := strings.Join(fields, "|")
	if additionalCharges != "" {
		sequence = additionalCharges + "|" + sequence
	}
	computed := hexDigest(sequence)
	claimed := strings.ToLower(strings.TrimSpace(claimedDigest))
	if len(claimed) != len(computed) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(claimed), []byte(computed)) == 1
}

func hexDigest(sequence string) string {
	sum := sha512.Sum512([]byte(sequence))
	return hex.EncodeToString(sum[:])
}
