// Package uart implements a clock-synchronous UART transmit engine and the
// matching line decoder.
//
// The engine is driven tick by tick: each call to Advance corresponds to one
// period of the transmit clock and performs exactly one synchronous step of
// the frame state machine (start bit, data bits LSB first, stop bit). The
// decoder is the consumer half of the contract: it samples the serial line
// once per tick and reconstructs words by sampling each bit period at its
// midpoint.
package uart
