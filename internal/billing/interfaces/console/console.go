// Package console runs the interactive billing menu over line based input.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"energy-billing/internal/billing/application"
	billing "energy-billing/internal/billing/domain"
	"energy-billing/internal/billing/format"
	"energy-billing/internal/billing/interfaces"
	masterdataapp "energy-billing/internal/masterdata/application"
	masterdata "energy-billing/internal/masterdata/domain"
)

// Deps are the services driven by the menu.
type Deps struct {
	Clients     *masterdataapp.ClientService
	Consumption *application.ConsumptionService
	Billing     *application.BillingService
	Simulator   *application.Simulator
	Logger      *zap.Logger
}

// Console is the interactive menu.
type Console struct {
	deps Deps
	in   *bufio.Scanner
	out  io.Writer
}

var errInputClosed = errors.New("console: input closed")

// New builds a console reading from in and writing to out.
func New(deps Deps, in io.Reader, out io.Writer) (*Console, error) {
	if deps.Clients == nil || deps.Consumption == nil || deps.Billing == nil || deps.Simulator == nil {
		return nil, errors.New("console: missing service")
	}
	if in == nil || out == nil {
		return nil, errors.New("console: nil input or output")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Console{deps: deps, in: bufio.NewScanner(in), out: out}, nil
}

const menu = `
--- Menú Principal: Gestión de Consumo Eléctrico ---
1.  Crear un nuevo Cliente
2.  Editar información de un Cliente existente
3.  Añadir un nuevo Medidor a un Cliente
4.  Editar información de un Medidor
5.  Cargar consumos automáticamente (para TODOS los clientes, un mes/año)
6.  Cargar consumos automáticamente (para UN cliente, un mes/año)
7.  Registrar o cambiar un Consumo específico (para un medidor, fecha y kWh)
8.  Ver todos los Consumos de un Medidor (para un mes/año)
9.  Generar Factura (en texto) de un Cliente (para un mes/año)
10. Ver Consumo MÍNIMO de un Cliente (para un mes/año)
11. Ver Consumo MÁXIMO de un Cliente (para un mes/año)
12. Ver Consumo por FRANJAS HORARIAS de un Cliente (para un mes/año)
13. Ver Consumo por DÍAS de un Cliente (para un mes/año)
14. Calcular VALOR TOTAL de la Factura de un Cliente (para un mes/año)
15. Mostrar lista de todos los Clientes
16. Mostrar lista de Medidores de un Cliente
0. Salir de la aplicación`

// Run loops over the menu until the user exits, input ends or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	actions := map[int]func(context.Context) error{
		1:  c.createClient,
		2:  c.editClient,
		3:  c.addMeter,
		4:  c.editMeter,
		5:  c.simulateAll,
		6:  c.simulateClient,
		7:  c.recordConsumption,
		8:  c.listRecords,
		9:  c.invoiceText,
		10: c.minimum,
		11: c.maximum,
		12: c.perBand,
		13: c.perDay,
		14: c.invoiceValue,
		15: c.listClients,
		16: c.listMeters,
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.println(menu)
		raw, err := c.prompt("Por favor, elija una opción: ")
		if errors.Is(err, errInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		option, convErr := strconv.Atoi(raw)
		if convErr != nil {
			c.println("Entrada incorrecta. Debe ingresar un número para la opción.")
			continue
		}
		if option == 0 {
			c.println("Cerrando la aplicación...")
			return nil
		}
		action, ok := actions[option]
		if !ok {
			c.println("Opción no reconocida. Por favor, intente de nuevo.")
			continue
		}
		if err := action(ctx); err != nil {
			if errors.Is(err, errInputClosed) {
				return nil
			}
			c.deps.Logger.Debug("console action failed", zap.Int("option", option), zap.Error(err))
			c.println("Error: " + describe(err))
		}
	}
}

func (c *Console) createClient(ctx context.Context) error {
	c.println("\n--- Crear Nuevo Cliente ---")
	fields, err := c.prompts(
		"Número de identificación del cliente: ",
		"Tipo de identificación (Ej: CC, NIT, Pasaporte): ",
		"Correo electrónico: ",
		"Dirección física: ",
	)
	if err != nil {
		return err
	}
	if _, err := c.deps.Clients.CreateClient(ctx, fields[0], fields[1], fields[2], fields[3]); err != nil {
		return err
	}
	c.println("¡Cliente creado con éxito!")
	return nil
}

func (c *Console) editClient(ctx context.Context) error {
	c.println("\n--- Editar Cliente ---")
	fields, err := c.prompts(
		"Número de identificación del cliente que desea editar: ",
		"Nuevo tipo de identificación (deje en blanco si no cambia): ",
		"Nuevo correo electrónico (deje en blanco si no cambia): ",
		"Nueva dirección física (deje en blanco si no cambia): ",
	)
	if err != nil {
		return err
	}
	client, err := c.deps.Clients.UpdateClient(ctx, fields[0], masterdataapp.ClientUpdate{
		IDType:  optional(fields[1]),
		Email:   optional(fields[2]),
		Address: optional(fields[3]),
	})
	if err != nil {
		return err
	}
	c.println("Cliente actualizado con éxito: " + client.Summary())
	return nil
}

func (c *Console) addMeter(ctx context.Context) error {
	c.println("\n--- Añadir Nuevo Medidor ---")
	fields, err := c.prompts(
		"Número de identificación del Cliente al que pertenece el medidor: ",
		"Número de identificación para el nuevo medidor: ",
		"Dirección donde se instalará el medidor: ",
		"Ciudad donde se ubica el medidor: ",
	)
	if err != nil {
		return err
	}
	meter, err := c.deps.Clients.AddMeter(ctx, fields[0], fields[1], fields[2], fields[3])
	if err != nil {
		return err
	}
	c.println("Medidor añadido y asociado al cliente con éxito: " + meter.Summary(""))
	return nil
}

func (c *Console) editMeter(ctx context.Context) error {
	c.println("\n--- Editar Medidor ---")
	ids, err := c.prompts(
		"Número de identificación del Cliente dueño del medidor: ",
		"Número de identificación del medidor que desea editar: ",
	)
	if err != nil {
		return err
	}
	current, err := c.deps.Clients.GetMeter(ctx, ids[0], ids[1])
	if err != nil {
		return err
	}
	fields, err := c.prompts(
		"Nueva dirección del medidor (deje en blanco si no cambia): ",
		"Nueva ciudad del medidor (deje en blanco si no cambia): ",
	)
	if err != nil {
		return err
	}
	address, city := current.Address, current.City
	if fields[0] != "" {
		address = fields[0]
	}
	if fields[1] != "" {
		city = fields[1]
	}
	meter, err := c.deps.Clients.UpdateMeter(ctx, ids[0], ids[1], address, city)
	if err != nil {
		return err
	}
	c.println("Medidor actualizado con éxito: " + c.meterSummary(ctx, ids[0], meter))
	return nil
}

func (c *Console) simulateAll(ctx context.Context) error {
	c.println("\n--- Cargar Consumos Automáticos (Para Todos los Clientes) ---")
	year, month, err := c.period()
	if err != nil {
		return err
	}
	result, err := c.deps.Simulator.SimulateAll(ctx, year, month)
	if err != nil {
		return err
	}
	c.printf("Se han simulado y cargado los consumos de %d medidores para el periodo %s.\n", result.Meters, result.Period)
	return nil
}

func (c *Console) simulateClient(ctx context.Context) error {
	c.println("\n--- Cargar Consumos Automáticos (Para Un Cliente) ---")
	clientID, err := c.prompt("Número de identificación del Cliente: ")
	if err != nil {
		return err
	}
	year, month, err := c.period()
	if err != nil {
		return err
	}
	result, err := c.deps.Simulator.SimulateClient(ctx, clientID, year, month)
	if err != nil {
		return err
	}
	c.printf("Consumos simulados y cargados para el cliente %s para el periodo %s.\n", clientID, result.Period)
	return nil
}

func (c *Console) recordConsumption(ctx context.Context) error {
	c.println("\n--- Registrar o Modificar un Consumo Específico ---")
	fields, err := c.prompts(
		"Número de identificación del Cliente: ",
		"Número de identificación del Medidor: ",
		"Fecha y hora del consumo (formato AAAA-MM-DDTHH:mm, ej: 2025-05-15T14:30): ",
		"Cantidad de kWh consumidos (ej: 150.75): ",
	)
	if err != nil {
		return err
	}
	ts, err := time.ParseInLocation(interfaces.RecordTimeLayout, fields[2], time.UTC)
	if err != nil {
		c.println("Error: El formato de la fecha y hora es incorrecto. Debe ser AAAA-MM-DDTHH:mm (ej: 2025-07-23T09:00).")
		return nil
	}
	kWh, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		c.println("Error: La cantidad de kWh debe ser un número.")
		return nil
	}
	record, err := billing.NewConsumptionRecord(ts, kWh)
	if err != nil {
		return err
	}
	result, err := c.deps.Consumption.RecordConsumption(ctx, billing.MeterRef{ClientID: fields[0], MeterID: fields[1]}, record)
	if err != nil {
		return err
	}
	if result.PeriodReset {
		c.printf("Aviso: se descartaron los consumos del periodo %s; el medidor quedó cargado para %s.\n", result.Previous, result.Period)
	}
	c.println("Consumo registrado/modificado con éxito.")
	return nil
}

func (c *Console) listRecords(ctx context.Context) error {
	c.println("\n--- Ver Consumos de un Medidor ---")
	ids, err := c.prompts("Número de identificación del Cliente: ", "Número de identificación del Medidor: ")
	if err != nil {
		return err
	}
	year, month, err := c.period()
	if err != nil {
		return err
	}
	records, err := c.deps.Consumption.QueryConsumptionRecords(ctx, billing.MeterRef{ClientID: ids[0], MeterID: ids[1]}, year, month)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		c.println("No se encontraron consumos para el medidor y periodo que especificó, o los datos no están cargados para ese periodo.")
		return nil
	}
	c.printf("Consumos del medidor %s (Cliente: %s) para %s:\n", ids[1], ids[0], billing.PeriodOf(records[0].Timestamp()))
	for _, r := range records {
		c.println(interfaces.RecordLine(r))
	}
	return nil
}

func (c *Console) invoiceText(ctx context.Context) error {
	c.println("\n--- Generar Factura (en texto) del Cliente ---")
	clientID, year, month, err := c.clientPeriod()
	if err != nil {
		return err
	}
	text, err := c.deps.Billing.InvoiceText(ctx, clientID, year, month)
	if err != nil {
		return err
	}
	c.println("\n--- INICIO DE LA FACTURA (TEXTO) ---")
	c.println(text)
	c.println("--- FIN DE LA FACTURA ---")
	return nil
}

func (c *Console) minimum(ctx context.Context) error {
	c.println("\n--- Ver Consumo Mínimo Horario del Cliente por Mes ---")
	clientID, year, month, err := c.clientPeriod()
	if err != nil {
		return err
	}
	value, ok, err := c.deps.Billing.MinimumReading(ctx, clientID, year, month)
	if err != nil {
		return err
	}
	if !ok {
		c.println(noData)
		return nil
	}
	c.printf("El consumo horario MÁS BAJO para el cliente %s en %02d/%d fue de: %s\n", clientID, month, year, format.KWh(value))
	return nil
}

func (c *Console) maximum(ctx context.Context) error {
	c.println("\n--- Ver Consumo Máximo Horario del Cliente por Mes ---")
	clientID, year, month, err := c.clientPeriod()
	if err != nil {
		return err
	}
	value, ok, err := c.deps.Billing.MaximumReading(ctx, clientID, year, month)
	if err != nil {
		return err
	}
	if !ok {
		c.println(noData)
		return nil
	}
	c.printf("El consumo horario MÁS ALTO para el cliente %s en %02d/%d fue de: %s\n", clientID, month, year, format.KWh(value))
	return nil
}

func (c *Console) perBand(ctx context.Context) error {
	c.println("\n--- Ver Consumo Total por Franjas Horarias del Cliente (Mes) ---")
	clientID, year, month, err := c.clientPeriod()
	if err != nil {
		return err
	}
	totals, ok, err := c.deps.Billing.PerBandTotals(ctx, clientID, year, month)
	if err != nil {
		return err
	}
	if !ok {
		c.println(noData)
		return nil
	}
	c.printf("Consumo total para el cliente %s en %02d/%d, por franja horaria:\n", clientID, month, year)
	for _, line := range interfaces.BandLines(totals) {
		c.println(line)
	}
	return nil
}

func (c *Console) perDay(ctx context.Context) error {
	c.println("\n--- Ver Consumo Total por Días del Cliente (Mes) ---")
	clientID, year, month, err := c.clientPeriod()
	if err != nil {
		return err
	}
	totals, ok, err := c.deps.Billing.PerDayTotals(ctx, clientID, year, month)
	if err != nil {
		return err
	}
	if !ok {
		c.println(noData)
		return nil
	}
	c.printf("Consumo total por día para el cliente %s en %02d/%d:\n", clientID, month, year)
	for _, line := range interfaces.DayLines(totals) {
		c.println(line)
	}
	return nil
}

func (c *Console) invoiceValue(ctx context.Context) error {
	c.println("\n--- Calcular Valor Total de la Factura del Cliente (Mes) ---")
	clientID, year, month, err := c.clientPeriod()
	if err != nil {
		return err
	}
	totals, ok, err := c.deps.Billing.InvoiceValue(ctx, clientID, year, month)
	if err != nil {
		return err
	}
	if !ok {
		c.printf("No se pudo calcular la factura. Verifique que el cliente tenga consumos cargados para %02d/%d.\n", month, year)
		return nil
	}
	c.printf("El VALOR TOTAL de la factura para el cliente %s en %02d/%d es: %s\n", clientID, month, year, format.COP(totals.TotalCost))
	return nil
}

func (c *Console) listClients(ctx context.Context) error {
	c.println("\n--- Lista de Todos los Clientes Registrados ---")
	clients, err := c.deps.Clients.ListClients(ctx)
	if err != nil {
		return err
	}
	if len(clients) == 0 {
		c.println("Aún no hay clientes registrados en el sistema.")
		return nil
	}
	for _, client := range clients {
		c.println(client.Summary())
	}
	return nil
}

func (c *Console) listMeters(ctx context.Context) error {
	c.println("\n--- Lista de Medidores de un Cliente Específico ---")
	clientID, err := c.prompt("Número de identificación del Cliente: ")
	if err != nil {
		return err
	}
	client, err := c.deps.Clients.GetClient(ctx, clientID)
	if err != nil {
		return err
	}
	meters := client.Meters()
	if len(meters) == 0 {
		c.printf("El cliente %s no tiene medidores asociados actualmente.\n", clientID)
		return nil
	}
	c.printf("Medidores asociados al cliente %s:\n", clientID)
	for _, meter := range meters {
		c.println("  " + c.meterSummary(ctx, clientID, meter))
	}
	return nil
}

const noData = "No se encontraron datos de consumo para el cliente y periodo que especificó."

func (c *Console) meterSummary(ctx context.Context, clientID string, meter masterdata.Meter) string {
	period, ok, err := c.deps.Consumption.LoadedPeriod(ctx, billing.MeterRef{ClientID: clientID, MeterID: meter.ID()})
	if err != nil || !ok {
		return meter.Summary("")
	}
	return meter.Summary(period.String())
}

func (c *Console) clientPeriod() (string, int, int, error) {
	clientID, err := c.prompt("Número de identificación del Cliente: ")
	if err != nil {
		return "", 0, 0, err
	}
	year, month, err := c.period()
	return clientID, year, month, err
}

func (c *Console) period() (int, int, error) {
	year, err := c.promptInt("Ingrese el año (ej. 2025): ")
	if err != nil {
		return 0, 0, err
	}
	month, err := c.promptInt("Ingrese el mes (número del 1 al 12): ")
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

func (c *Console) prompts(labels ...string) ([]string, error) {
	out := make([]string, len(labels))
	for i, label := range labels {
		v, err := c.prompt(label)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (c *Console) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) promptInt(label string) (int, error) {
	raw, err := c.prompt(label)
	if err != nil {
		return 0, err
	}
	v, convErr := strconv.Atoi(raw)
	if convErr != nil {
		return 0, fmt.Errorf("%w: %q no es un número entero", billing.ErrInvalidArgument, raw)
	}
	return v, nil
}

func (c *Console) println(s string) { fmt.Fprintln(c.out, s) }

func (c *Console) printf(f string, args ...any) { fmt.Fprintf(c.out, f, args...) }

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// describe turns service errors into user facing messages.
func describe(err error) string {
	switch {
	case errors.Is(err, masterdata.ErrClientNotFound):
		return "No se encontró un cliente con ese número de identificación."
	case errors.Is(err, masterdata.ErrMeterNotFound):
		return "No se encontró el medidor para ese cliente."
	case errors.Is(err, masterdata.ErrDuplicateClient):
		return "Ya hay un cliente con ese número de identificación."
	case errors.Is(err, masterdata.ErrDuplicateMeter):
		return "El cliente ya tiene un medidor con ese número de identificación."
	case errors.Is(err, masterdata.ErrEmptyClientID), errors.Is(err, masterdata.ErrEmptyMeterID):
		return "El número de identificación no puede estar vacío."
	case errors.Is(err, billing.ErrInvalidState):
		return "El medidor no tiene un periodo de consumo inicializado."
	case errors.Is(err, billing.ErrInvalidArgument):
		return "Datos no válidos: " + err.Error()
	default:
		return err.Error()
	}
}
