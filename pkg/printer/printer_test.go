package printer

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelectsPrinter(t *testing.T) {
	p, err := New(Options{Type: "none"})
	require.NoError(t, err)
	assert.False(t, p.IsConnected(context.Background()))
	assert.NoError(t, p.Print(context.Background(), []byte("x")))

	_, err = New(Options{Type: "usb"})
	assert.Error(t, err)
	_, err = New(Options{Type: "network"})
	assert.Error(t, err)
	_, err = New(Options{Type: "serial"})
	assert.Error(t, err)
}

func TestNetworkPrinterSendsJob(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	got := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(conn)
		got <- buf.Bytes()
	}()

	p, err := New(Options{Type: "network", Address: ln.Addr().String()})
	require.NoError(t, err)
	require.NoError(t, p.Print(context.Background(), []byte("ticket")))
	assert.Equal(t, []byte("ticket"), <-got)
}

func TestDocumentColumns(t *testing.T) {
	d := NewDocument(20)
	d.KeyValue("Total:", "5220.00")
	d.ItemLine(2, "California Roll Especial", "9000.00")

	out := string(d.Bytes())
	assert.Contains(t, out, "Total:       5220.00\n")
	assert.Contains(t, out, "2x Californi 9000.00\n")
}

func TestDocumentEncodesAccents(t *testing.T) {
	d := NewDocument(Width58mm)
	d.Text("Café")
	out := d.Bytes()
	// PC858 maps é to 0x82
	assert.True(t, bytes.Contains(out, []byte{'C', 'a', 'f', 0x82, LF}))
}

func TestDocumentWrap(t *testing.T) {
	d := NewDocument(10)
	d.Wrap("sin wasabi por favor")
	lines := strings.Split(strings.TrimRight(string(d.Bytes()[5:]), "\n"), "\n")
	assert.Equal(t, []string{"sin wasabi", "por favor"}, lines)
}
