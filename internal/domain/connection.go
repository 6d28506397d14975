package domain

import (
	"github.com/rs/xid"
)

const (
	ConnectionLabelFirstFrame = "First Frame"
	ConnectionLabelLastFrame  = "Last Frame"

	ConnectionColorFirstFrame = "#22c55e"
	ConnectionColorLastFrame  = "#f97316"
	ConnectionColorDefault    = "#94a3b8"
)

// Connection is a directed edge between two canvas nodes.
type Connection struct {
	ID    string
	From  string
	To    string
	Color string
	Label string
}

func NewConnection(from, to, color, label string) Connection {
	if color == "" {
		color = ConnectionColorDefault
	}

	return Connection{
		ID:    "conn_" + xid.New().String(),
		From:  from,
		To:    to,
		Color: color,
		Label: label,
	}
}
