// Package wire defines the text wire format for the Lutron Integration
// Protocol (LIP).
//
// LIP is a line-oriented telnet-style protocol. Every line is terminated
// with CRLF. Outbound command lines have the form:
//
//	<prefix><MODE>,<integrationId>,<actionNumber>[,<arg>...]
//
// where prefix is '?' for queries and '#' for actions. Inbound event
// lines have the form:
//
//	~<MODE>,<integrationId>,<actionNumber>,<value>
//
// optionally preceded by an echoed ready prompt ("GNET> "). Lines
// starting with "~SYSTEM," acknowledge the keepalive query and lines
// starting with "~ERROR," report protocol-level errors.
//
// # Line Classification
//
// ParseLine classifies a raw line in this priority order: blank, event,
// keepalive acknowledgment, error report, unrecognized. An event line
// whose numeric fields fail to convert is classified LineMalformed and
// carries no message; callers drop it silently.
package wire
