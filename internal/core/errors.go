package core

import "errors"

// Admission and validation failures surfaced to the kiosk and admin panel.
// Handlers map these to HTTP statuses; everything else is a 500.
var (
	// ErrCodigoInvalido: the scanned code matches no active QR config.
	ErrCodigoInvalido = errors.New("codigo QR no valido o inactivo")
	// ErrEntradaDuplicada: the day's most recent registro is an open ENTRADA.
	ErrEntradaDuplicada = errors.New("ya existe una entrada registrada sin salida")
	// ErrSinEntrada: a SALIDA was scanned with no prior ENTRADA at all.
	ErrSinEntrada = errors.New("no existe una entrada registrada para poder salir")
	// ErrSalidaRegistrada: the most recent ENTRADA already has a SALIDA after it.
	ErrSalidaRegistrada = errors.New("ya existe una salida registrada")
	// ErrRangoInvalido: report range with start after end.
	ErrRangoInvalido = errors.New("la fecha de inicio debe ser menor o igual que la fecha fin")
	// ErrEmpleadoNoEncontrado: lookup by id found nothing.
	ErrEmpleadoNoEncontrado = errors.New("empleado no encontrado")
)
