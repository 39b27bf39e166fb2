// Package ecdsa implements the Elliptic Curve Digital Signature Algorithm over
// the secp256k1 curve.
//
// Messages are hashed with SHA-256 and the digest, read as a big-endian
// integer, is reduced modulo the group order n. Nonces are drawn uniformly
// from the caller supplied random source and are never reused: a fresh one
// is drawn for every signature and whenever a draw leads to a degenerate
// r or s.
//
// # Quick Start
//
//	priv, err := ecdsa.GenerateKey(rand.Reader)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	msg := []byte("Hello, ECDSA!")
//	sig, err := ecdsa.Sign(rand.Reader, priv, msg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ok := ecdsa.Verify(priv.Public(), msg, sig.R, sig.S)
//
// # Verification
//
// Verify never returns an error. Out of range signature values, malformed
// keys and mismatching signatures all produce false, and the reason is not
// reported to the caller.
//
// # Batches
//
// Sign and Verify share no state, so independent calls may run in parallel.
// VerifyBatch spreads a slice of verifications over a pool of goroutines.
//
// # Logging
//
// The package logs through btclog and is silent until UseLogger is called.
// Private keys and nonces are never logged.
package ecdsa
