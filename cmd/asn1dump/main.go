// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command asn1dump decodes BER encoded data and prints the resulting trees.
//
// Input is read from the files given as arguments or from standard input. The
// input may be raw bytes, hex, base64, decimal byte values or PEM. Every node
// is printed with its identifier and the byte range it was decoded from.
// Multiple files are decoded concurrently and printed in argument order.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	cmd := newRootCommand()
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "asn1dump: %s\n", err)
		os.Exit(1)
	}
}
