package history

import "errors"

// ErrNotFound: record dengan ID tersebut tidak ada di koleksi riwayat.
// Ini outcome normal, bukan kegagalan internal.
var ErrNotFound = errors.New("analysis not found")
