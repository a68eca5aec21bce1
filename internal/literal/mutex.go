//go:build !debug

package literal

import "sync"

type rwMutex = sync.RWMutex
