// Command sealbox generates key pairs, registers identities with a
// public-key directory and seals or opens JSON messages between them.
//
// Usage:
//
//	sealbox keygen [--json]
//	sealbox register <identity>
//	sealbox encrypt --from <identity> --to <peer>   < payload.json
//	sealbox decrypt --to <identity> --from <peer>   < message.txt
//	sealbox directory serve [--addr :8787]
package main

import "os"

func main() {
	if err := run(os.Args[1:], DefaultIO()); err != nil {
		os.Exit(1)
	}
}
