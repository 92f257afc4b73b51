// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"

	"github.com/bitmark-inc/marketd/keypair"
	"github.com/bitmark-inc/marketd/rpc/signed"
)

// Client - to hold RPC connections streams
type Client struct {
	conn    net.Conn
	client  *rpc.Client
	keyPair *keypair.KeyPair
	verbose bool
	handle  io.Writer // if verbose is set output items here
}

// NewClient - create a RPC connection to a marketd, keyPair may be
// nil when only queries are made
func NewClient(connect string, keyPair *keypair.KeyPair, verbose bool, handle io.Writer) (*Client, error) {

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
	}

	conn, err := tls.Dial("tcp", connect, tlsConfig)
	if err != nil {
		return nil, err
	}

	return newClient(conn, keyPair, verbose, handle), nil
}

func newClient(conn net.Conn, keyPair *keypair.KeyPair, verbose bool, handle io.Writer) *Client {
	return &Client{
		conn:    conn,
		client:  jsonrpc.NewClient(conn),
		keyPair: keyPair,
		verbose: verbose,
		handle:  handle,
	}
}

// Close - shutdown the marketd connection
func (client *Client) Close() {
	client.client.Close()
	client.conn.Close()
}

// sign the request with the client's identity then call
func (client *Client) signedCall(method string, args signed.Request, value uint64, reply interface{}) error {
	if nil == client.keyPair {
		return fmt.Errorf("%s: no signing identity", method)
	}
	err := signed.Sign(method, args, client.keyPair, value, uint64(time.Now().Unix()))
	if nil != err {
		return err
	}
	return client.call(method, args, reply)
}

func (client *Client) call(method string, args interface{}, reply interface{}) error {
	client.printJson(method+" request", args)
	err := client.client.Call(method, args, reply)
	if nil != err {
		return err
	}
	client.printJson(method+" reply", reply)
	return nil
}

func (client *Client) printJson(title string, message interface{}) {

	if !client.verbose {
		return
	}

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		fmt.Fprintf(client.handle, "%s: %s\n", title, err)
		return
	}
	fmt.Fprintf(client.handle, "%s:\n%s\n", title, b)
}
