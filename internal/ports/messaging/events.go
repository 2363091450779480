package messaging

import "time"

// SalidaEvent is the JSON payload sent via SQS when a SALIDA closes an
// open ENTRADA. The notify worker turns it into a shift-summary email.
type SalidaEvent struct {
	RegistroID        int64     `json:"registroId"`
	EmpleadoID        int64     `json:"empleadoId"`
	CodigoEmpleado    string    `json:"codigoEmpleado"`
	MinutosTrabajados int       `json:"minutosTrabajados"`
	FechaHora         time.Time `json:"fechaHora"`
}
