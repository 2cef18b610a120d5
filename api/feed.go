package api

import (
	"github.com/idena-network/indance-go/blockchain/types"
	"github.com/idena-network/indance-go/common"
	"github.com/idena-network/indance-go/vm/embedded"
	"sync"
)

const receiptBufferSize = 64

// ReceiptEvent is pushed to receipt subscribers after every applied call.
type ReceiptEvent struct {
	BlockHeight uint64         `json:"blockHeight"`
	From        common.Address `json:"from"`
	Method      string         `json:"method"`
	Success     bool           `json:"success"`
	Error       *errorBody     `json:"error,omitempty"`
}

func newReceiptEvent(receipt *types.TxReceipt) *ReceiptEvent {
	e := &ReceiptEvent{
		BlockHeight: receipt.BlockHeight,
		From:        receipt.From,
		Method:      receipt.Method,
		Success:     receipt.Success,
	}
	if receipt.Error != nil {
		code := embedded.ErrorCode(receipt.Error)
		if code == "" {
			code = "Internal"
		}
		e.Error = &errorBody{Code: code, Message: receipt.Error.Error()}
	}
	return e
}

// receiptFeed fans receipts out to subscribers. A subscriber that does not keep up loses events.
type receiptFeed struct {
	subs  map[chan *ReceiptEvent]struct{}
	mutex sync.Mutex
}

func newReceiptFeed() *receiptFeed {
	return &receiptFeed{subs: make(map[chan *ReceiptEvent]struct{})}
}

func (f *receiptFeed) subscribe() chan *ReceiptEvent {
	ch := make(chan *ReceiptEvent, receiptBufferSize)
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.subs[ch] = struct{}{}
	return ch
}

func (f *receiptFeed) unsubscribe(ch chan *ReceiptEvent) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	delete(f.subs, ch)
}

func (f *receiptFeed) publish(e *ReceiptEvent) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	for ch := range f.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
