package charge

import (
	"github.com/google/uuid"

	"github.com/Poupe902/Checkout-Bahia/internal/model"
)

// syntheticPayCode is a statically valid-looking PIX copy-paste code.
// It is the terminal fallback of the cascade and is only reachable
// through the cascade controller or an explicit demo action.
const syntheticPayCode = "00020101021226850014br.gov.bcb.pix0123testemockpixgalpao89520400005303986540589.905802BR5925GALPAO 896009SAO PAULO62070503***6304E2B1"

// Synthetic produces the placeholder charge artifact: the pay code is
// fixed, the opaque identifier is fresh on every call.
func Synthetic() model.ChargeResult {
	return model.ChargeResult{
		PayCode:    syntheticPayCode,
		ImageURL:   model.QRImageLink(syntheticPayCode),
		ExternalID: "mock_" + uuid.NewString(),
	}
}
