// Package nonceaudit detects ECDSA signatures whose nonces are related and
// recovers the private key they expose.
//
// Two signatures by the same key whose nonces satisfy k₂ = a·k₁ + b for known
// a and b leak the key:
//
//	d = (a·s₂·z₁ - s₁·z₂ + b·s₁·s₂) / (r₂·s₁ - a·r₁·s₂) mod n
//
// Reusing a nonce is the case a = 1, b = 0 and shows up as two signatures
// with the same r.
//
// # Quick Start
//
//	parser := &nonceaudit.JSONParser{}
//	records, err := parser.ParseSignatures("signatures.json")
//	if err != nil {
//	    return err
//	}
//
//	findings, err := nonceaudit.NewAuditor().Scan(ctx, records, pub)
//	if err != nil {
//	    return err
//	}
//	for _, f := range findings {
//	    fmt.Printf("records %v leak the key (%s)\n", f.RecordPair, f.Pattern)
//	}
//
// # Custom Patterns
//
//	auditor := nonceaudit.NewAuditor().WithPatterns(nonceaudit.Pattern{
//	    Name: "step_1024", A: big.NewInt(1), B: big.NewInt(1024),
//	})
package nonceaudit
