package server

import (
	"io"

	"td-game/internal/i18n"
	"td-game/internal/network"
)

// send renders resp as one JSON line into w
func (d *Dispatcher) send(w io.Writer, resp *network.Response) {
	data, err := resp.ToJSON()
	if err != nil {
		d.logger.Error("Failed to encode %s response: %v", resp.Type, err)
		return
	}
	if _, err := w.Write(data); err != nil {
		d.logger.Error("Failed to write %s response: %v", resp.Type, err)
	}
}

// reject answers an expected validation failure
func (d *Dispatcher) reject(w io.Writer, respType network.ResponseType, seq uint32, code string, key i18n.Key) {
	d.logger.Info("Rejected %s (seq %d): %s", respType, seq, code)
	d.send(w, network.CreateRejection(respType, seq, code, d.printer.Text(key)))
}

// reportError logs a fault and answers with an error response
func (d *Dispatcher) reportError(w io.Writer, seq uint32, code string, key i18n.Key, err error) {
	d.logger.Error("Packet seq %d failed [%s]: %v", seq, code, err)
	d.send(w, network.CreateErrorResponse(seq, code, d.printer.Text(key)))
}

// reportDecodeFailure answers a malformed packet; the packet is dropped
func (d *Dispatcher) reportDecodeFailure(w io.Writer, seq uint32, err error) {
	d.logger.Warn("Dropping malformed packet: %v", err)
	d.send(w, network.CreateErrorResponse(seq, network.CodeDecodeFailed, d.printer.Text(i18n.DecodeFailed)))
}
