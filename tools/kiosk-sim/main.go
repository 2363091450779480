package main

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Simulates a fleet of kiosk tablets scanning QR codes against a running
// API. Each tablet validates a code and, when accepted, posts the record,
// which is the same two-step flow the real kiosk page performs.
func main() {
	baseURL := "http://localhost:8080/api/v1"
	contentType := "application/json"

	numTablets := 20
	scansPerTablet := 100
	totalScans := numTablets * scansPerTablet

	fmt.Printf("Starting kiosk simulation: %d tablets, %d scans each, against %s\n", numTablets, scansPerTablet, baseURL)

	var wg sync.WaitGroup

	var accepted int64
	var rejected int64
	var failed int64

	startTime := time.Now()

	for i := 0; i < numTablets; i++ {
		wg.Add(1)

		tabletID := fmt.Sprintf("tablet-sim-%d", i)

		go func(tablet string, seed int) {
			defer wg.Done()

			for j := 0; j < scansPerTablet; j++ {
				// Alternate entrance and exit codes per simulated employee.
				empleadoID := seed*scansPerTablet + j
				var codigo string
				if j%2 == 0 {
					codigo = fmt.Sprintf("QR-ENT-%d", empleadoID)
				} else {
					codigo = fmt.Sprintf("QR-SAL-%d", empleadoID)
				}

				payload := []byte(fmt.Sprintf(`{"codigo": %q}`, codigo))
				resp, err := http.Post(baseURL+"/kiosko/validar-qr", contentType, bytes.NewBuffer(payload))
				if err != nil {
					atomic.AddInt64(&failed, 1)
					continue
				}
				ok := resp.StatusCode >= 200 && resp.StatusCode < 300
				resp.Body.Close()
				if !ok {
					atomic.AddInt64(&rejected, 1)
					continue
				}

				tipo := "ENTRADA"
				if j%2 == 1 {
					tipo = "SALIDA"
				}
				registro := []byte(fmt.Sprintf(`{"empleado_id": %d, "tipo": %q, "codigo": %q, "tablet_id": %q}`, empleadoID, tipo, codigo, tablet))
				resp, err = http.Post(baseURL+"/kiosko/registros", contentType, bytes.NewBuffer(registro))
				if err != nil {
					atomic.AddInt64(&failed, 1)
					continue
				}
				if resp.StatusCode >= 200 && resp.StatusCode < 300 {
					atomic.AddInt64(&accepted, 1)
				} else {
					atomic.AddInt64(&rejected, 1)
				}
				resp.Body.Close()
			}
		}(tabletID, i)
	}

	wg.Wait()
	duration := time.Since(startTime)

	fmt.Println("\n--- Kiosk Simulation Results ---")
	fmt.Printf("Total Duration: %v\n", duration)
	fmt.Printf("Total Scans:    %d\n", totalScans)
	fmt.Printf("Accepted:       %d\n", accepted)
	fmt.Printf("Rejected:       %d\n", rejected)
	fmt.Printf("Failed:         %d\n", failed)
	fmt.Printf("Scans/Sec:      %.2f\n", float64(totalScans)/duration.Seconds())
}
