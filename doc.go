// Package platform provides one portable surface for the operating
// system facilities a host runtime needs: files, sockets, threads,
// synchronization, clocks, memory, randomness and process facts.
//
// # Architecture Overview
//
// The module is organized into small packages with one concern each:
//
//	platform/            Root package with the shared Resource and Allocator contracts
//	├── atomics/         Sequentially consistent scalar atomics
//	├── clocks/          Wall and monotonic clocks, sleeping, timestamp text
//	├── dynlib/          Dynamic library loading over an embedded WASM engine
//	├── errors/          The closed platform error code set
//	├── filesystem/      Files, directories, paths and the directory cursor
//	├── mem/             Arena allocation with handle-checked free
//	├── proc/            Process identity, environment, memory and terminal facts
//	├── random/          OS cryptographic randomness
//	├── resource/        Live-handle tracking for every platform object
//	├── sockets/         TCP and UDP sockets behind one state machine
//	└── thread/          Threads, mutexes, condition variables, rwlocks
//
// # Error Model
//
// Every failure anywhere in the layer is a *errors.Error carrying one
// code from a closed set of eleven. Callers branch on the code with
// errors.CodeOf and never parse message text:
//
//	if err := s.Connect(ctx, host, port); errors.CodeOf(err) == errors.CodeTimeout {
//	    // retry with backoff
//	}
//
// The code set is part of the contract: invalid_argument, out_of_memory,
// not_found, already_exists, permission_denied, io, timeout, would_block,
// not_supported, plus the generic error code. New causes map into these,
// they never extend the set.
//
// # Handles and Lifecycle
//
// Objects that hold an OS facility register with resource.Default()
// when created and release on Close. Using anything after closing it
// returns a defined error rather than crashing, and closing twice
// reports the same error. The tracker makes leaks observable:
//
//	resource.Default().Each(func(h resource.Handle, kind resource.Kind, label string) bool {
//	    log.Printf("still open: %s %s", kind, label)
//	    return true
//	})
//
// # Quick Start
//
// A loopback echo using the socket layer:
//
//	if err := sockets.Init(); err != nil {
//	    log.Fatal(err)
//	}
//	defer sockets.Cleanup()
//
//	listener, _ := sockets.New(sockets.TCP)
//	listener.Bind("127.0.0.1", 0)
//	listener.Listen(4)
//	_, port, _ := listener.LocalAddr()
//
//	client, _ := sockets.New(sockets.TCP)
//	client.Connect(ctx, "127.0.0.1", port)
//	client.Send([]byte("ping"))
//
//	conn, _ := listener.Accept()
//	n, _ := conn.Recv(buf)
//
// # Concurrency
//
// Package-level functions are safe for concurrent use. Individual
// handles (Socket, Dir, Library, Arena) serialize their own state, so
// sharing one across goroutines is safe but transfers interleave;
// coordinate with the thread package's primitives when ordering
// matters.
//
// # Observability
//
// Lifecycle-bearing packages expose SetLogger(*zap.Logger). The default
// is a no-op logger, so the layer is silent unless a host injects one.
package platform
