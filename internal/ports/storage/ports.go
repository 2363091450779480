package storage

import "context"

// FotoStorage is the output port for confirmation-photo uploads. It returns
// the public URL stored on the registro.
type FotoStorage interface {
	SubirFoto(ctx context.Context, nombre string, datos []byte) (string, error)
}
