// Copyright (c) 2024 The namecoin-core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinview

import "os"

// ErrorCatcherView wraps a view and treats a runtime read failure from
// GetCoin as fatal: it invokes every registered error callback, logs, and
// aborts the process.
//
// Silently returning "not found" on an I/O failure would be indistinguishable
// from "coin absent", which is a consensus-level lie.  Atomic writes
// downstream guarantee that aborting here leaves no half-flushed state.
//
// A backing view signals a read failure by panicking with an error value
// from GetCoin, rather than by returning one; GetCoin recovers that panic
// at this boundary, the Go equivalent of the original's try/catch around a
// thrown runtime_error.
type ErrorCatcherView struct {
	*BackedCoinView

	callbacks []func()

	// abort terminates the process.  It is a field rather than a direct
	// call to os.Exit so tests can observe the failure path without
	// killing the test binary.
	abort func()
}

// NewErrorCatcherView returns a view that wraps base and aborts the process
// on a read failure from it.
func NewErrorCatcherView(base CoinView) *ErrorCatcherView {
	return &ErrorCatcherView{
		BackedCoinView: NewBackedCoinView(base),
		abort:          func() { os.Exit(1) },
	}
}

// RegisterErrorCallback appends cb to the ordered list of callbacks invoked
// before the process aborts.
func (v *ErrorCatcherView) RegisterErrorCallback(cb func()) {
	v.callbacks = append(v.callbacks, cb)
}

// GetCoin forwards to the backing view.  A panic raised by the backing view
// is treated as an unrecoverable read failure: every registered callback
// runs, the failure is logged, and the process aborts rather than returning
// to the caller.
func (v *ErrorCatcherView) GetCoin(outpoint OutPoint) (coin Coin, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			for _, cb := range v.callbacks {
				cb()
			}
			log.Criticalf("error reading from database: %v", r)
			v.abort()
		}
	}()
	return v.BackedCoinView.GetCoin(outpoint)
}

var _ CoinView = (*ErrorCatcherView)(nil)
