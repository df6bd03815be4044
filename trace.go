// Copyright (c) 2024 The namecoin-core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinview

// TraceEvent identifies one of the named validation-observer trace points a
// cache emits.
type TraceEvent string

const (
	// TraceAdd fires whenever AddCoin inserts a coin.
	TraceAdd TraceEvent = "add"

	// TraceSpent fires whenever SpendCoin marks a coin as spent.
	TraceSpent TraceEvent = "spent"

	// TraceUncache fires whenever Uncache actually drops an entry.
	TraceUncache TraceEvent = "uncache"

	// TraceFlush fires whenever Flush completes a non-trivial flush.
	TraceFlush TraceEvent = "flush"

	// TraceNameSet fires whenever SetName records a new value for a name.
	TraceNameSet TraceEvent = "nameSet"
)

// TraceInfo carries the fields emitted alongside a trace event.  Not every
// field is populated for every event: coin events populate OutPoint,
// Height, Value and CoinBase; the name event populates Name and Height;
// the flush event populates none of them.
type TraceInfo struct {
	OutPoint OutPoint
	Height   uint32
	Value    int64
	CoinBase bool
	Name     []byte
}

// TraceHook is invoked for every registered trace point a cache reaches.
// There is no transport implied; a hook that wants to forward events to a
// metrics sink or a log line is free to do so itself.
type TraceHook func(event TraceEvent, info TraceInfo)

var traceHooks []TraceHook

// RegisterTrace appends hook to the process-wide set of functions invoked
// at every named trace point, across every cache instance.
func RegisterTrace(hook TraceHook) {
	traceHooks = append(traceHooks, hook)
}

func emitTrace(event TraceEvent, outpoint OutPoint, coin Coin) {
	if len(traceHooks) == 0 {
		return
	}
	info := TraceInfo{
		OutPoint: outpoint,
		Height:   coin.Height,
		Value:    coin.Value,
		CoinBase: coin.CoinBase,
	}
	for _, hook := range traceHooks {
		hook(event, info)
	}
}

func emitNameTrace(event TraceEvent, name []byte, height uint32) {
	if len(traceHooks) == 0 {
		return
	}
	info := TraceInfo{Name: name, Height: height}
	for _, hook := range traceHooks {
		hook(event, info)
	}
}

func emitFlushTrace() {
	if len(traceHooks) == 0 {
		return
	}
	for _, hook := range traceHooks {
		hook(TraceFlush, TraceInfo{})
	}
}
