//go:build !debug

package callctx

import "sync"

type rwMutex = sync.RWMutex
