package apihttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"energy-billing/internal/billing/application"
	billing "energy-billing/internal/billing/domain"
	"energy-billing/internal/billing/interfaces"
	masterdataapp "energy-billing/internal/masterdata/application"
	masterdata "energy-billing/internal/masterdata/domain"
)

type tariffDTO struct {
	Band         string  `json:"band"`
	StartHour    int     `json:"start_hour"`
	EndHour      int     `json:"end_hour"`
	MinKWh       float64 `json:"min_kwh"`
	MaxKWh       float64 `json:"max_kwh"`
	MinInclusive bool    `json:"min_inclusive"`
	MaxInclusive bool    `json:"max_inclusive"`
	PricePerKWh  float64 `json:"price_per_kwh"`
}

type meterDTO struct {
	ID           string `json:"id"`
	Address      string `json:"address"`
	City         string `json:"city"`
	LoadedPeriod string `json:"loaded_period,omitempty"`
}

type clientDTO struct {
	ID      string     `json:"id"`
	IDType  string     `json:"id_type"`
	Email   string     `json:"email"`
	Address string     `json:"address"`
	Meters  []meterDTO `json:"meters"`
}

type recordDTO struct {
	Timestamp string  `json:"timestamp"`
	KWh       float64 `json:"kwh"`
	Band      string  `json:"band"`
	Cost      float64 `json:"cost"`
}

type createClientRequest struct {
	ID      string `json:"id"`
	IDType  string `json:"id_type"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type updateClientRequest struct {
	IDType  *string `json:"id_type"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

type meterRequest struct {
	ID      string `json:"id"`
	Address string `json:"address"`
	City    string `json:"city"`
}

type periodRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// consumptionRequest targets the loaded period unless Year and Month are set.
type consumptionRequest struct {
	Year  int     `json:"year,omitempty"`
	Month int     `json:"month,omitempty"`
	Day   int     `json:"day"`
	Hour  int     `json:"hour"`
	KWh   float64 `json:"kwh"`
}

type recordRequest struct {
	Timestamp string  `json:"timestamp"`
	KWh       float64 `json:"kwh"`
}

type simulationRequest struct {
	ClientID string `json:"client_id"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
}

func (s *Server) listTariffs(w http.ResponseWriter, _ *http.Request) {
	bands := billing.Bands()
	out := make([]tariffDTO, 0, len(bands))
	for _, b := range bands {
		out = append(out, tariffDTO{
			Band:         b.Band.String(),
			StartHour:    b.StartHour,
			EndHour:      b.EndHour,
			MinKWh:       b.MinKWh,
			MaxKWh:       b.MaxKWh,
			MinInclusive: b.MinInclusive,
			MaxInclusive: b.MaxInclusive,
			PricePerKWh:  b.PricePerKWh,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.clients.ListClients(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]clientDTO, 0, len(clients))
	for _, c := range clients {
		out = append(out, s.clientDTO(r, c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createClient(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if !decode(w, r, &req) {
		return
	}
	client, err := s.clients.CreateClient(r.Context(), req.ID, req.IDType, req.Email, req.Address)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.clientDTO(r, client))
}

func (s *Server) getClient(w http.ResponseWriter, r *http.Request) {
	client, err := s.clients.GetClient(r.Context(), r.PathValue("clientID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.clientDTO(r, client))
}

func (s *Server) updateClient(w http.ResponseWriter, r *http.Request) {
	var req updateClientRequest
	if !decode(w, r, &req) {
		return
	}
	client, err := s.clients.UpdateClient(r.Context(), r.PathValue("clientID"), masterdataapp.ClientUpdate{
		IDType:  req.IDType,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.clientDTO(r, client))
}

func (s *Server) listMeters(w http.ResponseWriter, r *http.Request) {
	client, err := s.clients.GetClient(r.Context(), r.PathValue("clientID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.clientDTO(r, client).Meters)
}

func (s *Server) addMeter(w http.ResponseWriter, r *http.Request) {
	var req meterRequest
	if !decode(w, r, &req) {
		return
	}
	clientID := r.PathValue("clientID")
	meter, err := s.clients.AddMeter(r.Context(), clientID, req.ID, req.Address, req.City)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.meterDTO(r, clientID, meter))
}

func (s *Server) getMeter(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("clientID")
	meter, err := s.clients.GetMeter(r.Context(), clientID, r.PathValue("meterID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.meterDTO(r, clientID, meter))
}

func (s *Server) updateMeter(w http.ResponseWriter, r *http.Request) {
	var req meterRequest
	if !decode(w, r, &req) {
		return
	}
	clientID := r.PathValue("clientID")
	meter, err := s.clients.UpdateMeter(r.Context(), clientID, r.PathValue("meterID"), req.Address, req.City)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.meterDTO(r, clientID, meter))
}

func (s *Server) removeMeter(w http.ResponseWriter, r *http.Request) {
	if err := s.clients.RemoveMeter(r.Context(), r.PathValue("clientID"), r.PathValue("meterID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) initPeriod(w http.ResponseWriter, r *http.Request) {
	var req periodRequest
	if !decode(w, r, &req) {
		return
	}
	period, err := s.consumption.InitConsumptionPeriod(r.Context(), meterRef(r), req.Year, req.Month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"period": period.String(), "days": period.Days()})
}

func (s *Server) setConsumption(w http.ResponseWriter, r *http.Request) {
	var req consumptionRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Year != 0 || req.Month != 0 {
		result, err := s.consumption.SetConsumptionAt(r.Context(), meterRef(r), req.Year, req.Month, req.Day, req.Hour, req.KWh)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, recordResultJSON(result))
		return
	}
	if err := s.consumption.SetConsumption(r.Context(), meterRef(r), req.Day, req.Hour, req.KWh); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func recordResultJSON(result application.RecordResult) map[string]any {
	out := map[string]any{
		"period":       result.Period.String(),
		"initialized":  result.Initialized,
		"period_reset": result.PeriodReset,
	}
	if result.PeriodReset {
		out["previous_period"] = result.Previous.String()
	}
	return out
}

func (s *Server) recordConsumption(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if !decode(w, r, &req) {
		return
	}
	ts, err := parseTimestamp(req.Timestamp)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	record, err := billing.NewConsumptionRecord(ts, req.KWh)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.consumption.RecordConsumption(r.Context(), meterRef(r), record)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := recordResultJSON(result)
	out["cost"] = record.Cost()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) queryRecords(w http.ResponseWriter, r *http.Request) {
	year, month, err := parsePeriodQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	records, err := s.consumption.QueryConsumptionRecords(r.Context(), meterRef(r), year, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("consumos-%s-%04d-%02d.csv", r.PathValue("meterID"), year, month)))
		if err := interfaces.WriteRecordsCSV(w, records); err != nil {
			s.logger.Sugar().Warnw("csv export failed", "error", err)
		}
		return
	}
	out := make([]recordDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, recordDTO{
			Timestamp: rec.Timestamp().Format(interfaces.RecordTimeLayout),
			KWh:       rec.KWh(),
			Band:      rec.Band().String(),
			Cost:      rec.Cost(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	var req simulationRequest
	if !decode(w, r, &req) {
		return
	}
	var (
		result application.SimulationResult
		err    error
	)
	if req.ClientID != "" {
		result, err = s.simulator.SimulateClient(r.Context(), req.ClientID, req.Year, req.Month)
	} else {
		result, err = s.simulator.SimulateAll(r.Context(), req.Year, req.Month)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"period":  result.Period.String(),
		"clients": result.Clients,
		"meters":  result.Meters,
		"cells":   result.Cells,
	})
}

func (s *Server) minimumReading(w http.ResponseWriter, r *http.Request) {
	s.reading(w, r, s.billing.MinimumReading)
}

func (s *Server) maximumReading(w http.ResponseWriter, r *http.Request) {
	s.reading(w, r, s.billing.MaximumReading)
}

type readingFunc func(ctx context.Context, clientID string, year, month int) (float64, bool, error)

func (s *Server) reading(w http.ResponseWriter, r *http.Request, fn readingFunc) {
	clientID, year, month, ok := clientPeriod(w, r)
	if !ok {
		return
	}
	kWh, found, err := fn(r.Context(), clientID, year, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := map[string]any{"found": found}
	if found {
		out["kwh"] = kWh
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) perBandTotals(w http.ResponseWriter, r *http.Request) {
	clientID, year, month, ok := clientPeriod(w, r)
	if !ok {
		return
	}
	totals, found, err := s.billing.PerBandTotals(r.Context(), clientID, year, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := map[string]any{"found": found}
	if found {
		bands := make(map[string]float64, billing.BandCount)
		for _, b := range billing.Bands() {
			bands[b.Band.String()] = totals[b.Band.Index()]
		}
		out["bands"] = bands
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) perDayTotals(w http.ResponseWriter, r *http.Request) {
	clientID, year, month, ok := clientPeriod(w, r)
	if !ok {
		return
	}
	totals, found, err := s.billing.PerDayTotals(r.Context(), clientID, year, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := map[string]any{"found": found}
	if found {
		out["days"] = totals
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) invoice(w http.ResponseWriter, r *http.Request) {
	clientID, year, month, ok := clientPeriod(w, r)
	if !ok {
		return
	}
	totals, found, err := s.billing.InvoiceValue(r.Context(), clientID, year, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := map[string]any{"found": found}
	if found {
		out["total_kwh"] = totals.TotalKWh
		out["total_cost"] = totals.TotalCost
		out["currency"] = "COP"
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) invoiceText(w http.ResponseWriter, r *http.Request) {
	clientID, year, month, ok := clientPeriod(w, r)
	if !ok {
		return
	}
	text, err := s.billing.InvoiceText(r.Context(), clientID, year, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

func (s *Server) invoicePDF(w http.ResponseWriter, r *http.Request) {
	clientID, year, month, ok := clientPeriod(w, r)
	if !ok {
		return
	}
	inv, err := s.billing.Invoice(r.Context(), clientID, year, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := interfaces.BuildInvoicePDF(inv)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeAttachment(w, "application/pdf", invoiceFilename(inv, "pdf"), out)
}

func (s *Server) invoiceXLSX(w http.ResponseWriter, r *http.Request) {
	clientID, year, month, ok := clientPeriod(w, r)
	if !ok {
		return
	}
	inv, err := s.billing.Invoice(r.Context(), clientID, year, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	daily, _, err := s.billing.PerDayTotals(r.Context(), clientID, year, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := interfaces.BuildInvoiceXLSX(inv, daily)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", invoiceFilename(inv, "xlsx"), out)
}

func (s *Server) clientDTO(r *http.Request, c *masterdata.Client) clientDTO {
	meters := c.Meters()
	out := clientDTO{ID: c.ID(), IDType: c.IDType, Email: c.Email, Address: c.Address, Meters: make([]meterDTO, 0, len(meters))}
	for _, m := range meters {
		out.Meters = append(out.Meters, s.meterDTO(r, c.ID(), m))
	}
	return out
}

func (s *Server) meterDTO(r *http.Request, clientID string, m masterdata.Meter) meterDTO {
	out := meterDTO{ID: m.ID(), Address: m.Address, City: m.City}
	period, ok, err := s.consumption.LoadedPeriod(r.Context(), billing.MeterRef{ClientID: clientID, MeterID: m.ID()})
	if err == nil && ok {
		out.LoadedPeriod = period.String()
	}
	return out
}

// writeError maps service errors onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Sugar().Errorw("request failed", "path", r.URL.Path, "request_id", RequestIDFrom(r.Context()), "error", err)
		http.Error(w, "internal error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, billing.ErrNotFound), errors.Is(err, masterdata.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, masterdata.ErrDuplicateClient), errors.Is(err, masterdata.ErrDuplicateMeter), errors.Is(err, billing.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, billing.ErrInvalidArgument), errors.Is(err, masterdata.ErrEmptyClientID), errors.Is(err, masterdata.ErrEmptyMeterID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func meterRef(r *http.Request) billing.MeterRef {
	return billing.MeterRef{ClientID: r.PathValue("clientID"), MeterID: r.PathValue("meterID")}
}

func clientPeriod(w http.ResponseWriter, r *http.Request) (string, int, int, bool) {
	year, month, err := parsePeriodQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", 0, 0, false
	}
	return r.PathValue("clientID"), year, month, true
}

func parsePeriodQuery(r *http.Request) (int, int, error) {
	year, err := parseIntQuery(r, "year")
	if err != nil {
		return 0, 0, err
	}
	month, err := parseIntQuery(r, "month")
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

func parseIntQuery(r *http.Request, key string) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return parsed, nil
}

// parseTimestamp accepts RFC 3339 or minute precision local layout, read as UTC.
func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("timestamp is required")
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	ts, err := time.ParseInLocation(interfaces.RecordTimeLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp must be RFC3339 or %s", interfaces.RecordTimeLayout)
	}
	return ts, nil
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func invoiceFilename(inv application.Invoice, ext string) string {
	return fmt.Sprintf("factura-%s-%04d-%02d.%s", inv.ClientID, inv.Period.Year, int(inv.Period.Month), ext)
}
