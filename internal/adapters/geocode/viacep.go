package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"venha/internal/domain"
)

const defaultViaCEPBaseURL = "https://viacep.com.br"

type viaCEPResolver struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

// NewViaCEPResolver returns an AddressResolver that resolves a Brazilian CEP
// to a canonical full address via the ViaCEP API. It never geocodes; callers
// that need coordinates should use the Nominatim resolver instead.
func NewViaCEPResolver(client *http.Client, baseURL string, logger *slog.Logger) domain.AddressResolver {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = defaultViaCEPBaseURL
	}
	return &viaCEPResolver{client: client, baseURL: baseURL, logger: logger}
}

type viaCEPResponse struct {
	Logradouro string          `json:"logradouro"`
	Bairro     string          `json:"bairro"`
	Localidade string          `json:"localidade"`
	UF         string          `json:"uf"`
	Erro       json.RawMessage `json:"erro"` // present (true) when the CEP is unknown
}

func (r *viaCEPResolver) Resolve(ctx context.Context, cep, addressFull string) (*domain.ResolvedAddress, error) {
	resolved := &domain.ResolvedAddress{FullAddress: addressFull}
	if cep == "" {
		return resolved, nil
	}

	clean := strings.NewReplacer("-", "", " ", "").Replace(cep)
	if len(clean) != 8 {
		r.logger.DebugContext(ctx, "cep lookup: invalid length", "cep", cep)
		return resolved, nil
	}

	url := fmt.Sprintf("%s/ws/%s/json/", r.baseURL, clean)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return resolved, nil
	}
	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.WarnContext(ctx, "cep lookup: request failed", "err", err)
		return resolved, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		r.logger.WarnContext(ctx, "cep lookup: unexpected status", "status", resp.StatusCode)
		return resolved, nil
	}

	var data viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return resolved, nil
	}
	if len(data.Erro) > 0 || data.Logradouro == "" {
		r.logger.DebugContext(ctx, "cep lookup: not found", "cep", cep)
		return resolved, nil
	}

	resolved.FullAddress = fmt.Sprintf("%s, %s, %s - %s, %s",
		data.Logradouro, data.Bairro, data.Localidade, data.UF, cep)
	return resolved, nil
}

type noopResolver struct{}

// NewNoopResolver returns an AddressResolver that passes the input address
// through untouched. Useful for tests and offline development.
func NewNoopResolver() domain.AddressResolver {
	return noopResolver{}
}

func (noopResolver) Resolve(_ context.Context, _, addressFull string) (*domain.ResolvedAddress, error) {
	return &domain.ResolvedAddress{FullAddress: addressFull}, nil
}
