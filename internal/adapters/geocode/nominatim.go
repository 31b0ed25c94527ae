package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"venha/internal/domain"
)

const defaultNominatimBaseURL = "https://nominatim.openstreetmap.org"

// userAgent identifies the app to Nominatim, which rejects anonymous clients.
const userAgent = "venha/1.0"

var (
	streetPrefixRe = regexp.MustCompile(`^(?i:Rua|Av\.|Avenida|Travessa|Alameda|Praça)\s+([^,]+)`)
	houseNumberRe  = regexp.MustCompile(`,\s*(\d+)`)
	cityStateRe    = regexp.MustCompile(`,\s*([^,]+?)\s*-\s*([A-Z]{2})`)
)

type nominatimResolver struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

// NewNominatimResolver returns an AddressResolver that geocodes free-text
// Brazilian addresses via Nominatim (OpenStreetMap). All lookup failures
// degrade to "no coordinates"; they never block the caller.
func NewNominatimResolver(client *http.Client, baseURL string, logger *slog.Logger) domain.AddressResolver {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = defaultNominatimBaseURL
	}
	return &nominatimResolver{client: client, baseURL: baseURL, logger: logger}
}

// simplifyAddress reduces "Rua Nome, 10, Bairro, Cidade - UF, CEP ..." to
// "Nome, 10, Cidade, Brasil", which Nominatim matches far more reliably than
// the full string. Returns "" when street or city can't be extracted.
func simplifyAddress(addressFull string) string {
	var street string
	if m := streetPrefixRe.FindStringSubmatch(addressFull); m != nil {
		street = strings.TrimSpace(m[1])
	} else {
		street = strings.TrimSpace(strings.SplitN(addressFull, ",", 2)[0])
	}

	var number string
	if m := houseNumberRe.FindStringSubmatch(addressFull); m != nil {
		number = m[1]
	}

	var city string
	if m := cityStateRe.FindStringSubmatch(addressFull); m != nil {
		city = strings.TrimSpace(m[1])
	}

	if street == "" || city == "" {
		return ""
	}
	if number != "" {
		return fmt.Sprintf("%s, %s, %s, Brasil", street, number, city)
	}
	return fmt.Sprintf("%s, %s, Brasil", street, city)
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (r *nominatimResolver) Resolve(ctx context.Context, cep, addressFull string) (*domain.ResolvedAddress, error) {
	resolved := &domain.ResolvedAddress{FullAddress: addressFull}
	if addressFull == "" {
		return resolved, nil
	}

	simplified := simplifyAddress(addressFull)
	if simplified == "" {
		r.logger.DebugContext(ctx, "geocode: could not extract street/city", "address", addressFull)
		return resolved, nil
	}

	q := url.Values{}
	q.Set("q", simplified)
	q.Set("format", "json")
	q.Set("limit", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return resolved, nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.WarnContext(ctx, "geocode: request failed", "err", err)
		return resolved, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		r.logger.WarnContext(ctx, "geocode: unexpected status", "status", resp.StatusCode)
		return resolved, nil
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil || len(results) == 0 {
		return resolved, nil
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return resolved, nil
	}
	resolved.Latitude = &lat
	resolved.Longitude = &lon
	r.logger.DebugContext(ctx, "geocode: resolved", "query", simplified, "lat", lat, "lon", lon)
	return resolved, nil
}
