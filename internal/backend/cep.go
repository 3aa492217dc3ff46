package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/balcao-pos/balcao/internal/domain"
)

// cepWire is the ViaCEP response shape.
type cepWire struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
	Error        bool   `json:"erro"`
}

// LookupPostalCode resolves a Brazilian CEP into address fields. The
// lookup is a convenience: callers fall back to manual address entry
// on any error.
func (c *Client) LookupPostalCode(ctx context.Context, code string) (domain.AddressInfo, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, code)
	if len(digits) != 8 {
		return domain.AddressInfo{}, domain.Invalid("backend.LookupPostalCode", "A CEP has exactly 8 digits")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cepBaseURL+"/ws/"+digits+"/json/", nil)
	if err != nil {
		return domain.AddressInfo{}, domain.Internal(err, "backend.LookupPostalCode", "Building the postal code request failed")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.AddressInfo{}, domain.Unavailable(err, "backend.LookupPostalCode", "The postal code service could not be reached")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return domain.AddressInfo{}, domain.Errorf(domain.EUNAVAILABLE, "backend.LookupPostalCode", "postal code service returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.AddressInfo{}, domain.Unavailable(err, "backend.LookupPostalCode", "Reading the postal code response failed")
	}

	var wire cepWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return domain.AddressInfo{}, domain.Internal(err, "backend.LookupPostalCode", "The backend response could not be decoded")
	}
	if wire.Error {
		return domain.AddressInfo{}, domain.NotFound("backend.LookupPostalCode", "postal code", digits)
	}

	return domain.AddressInfo{
		ZipCode:      wire.CEP,
		Street:       wire.Street,
		Neighborhood: wire.Neighborhood,
		City:         wire.City,
		State:        wire.State,
	}, nil
}
