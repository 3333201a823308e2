// Package commands defines the rmap CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - get        Run the full handshake and download the watermarked document
//   - handshake  Run the handshake only and print/store the link token
//   - fetch      Exchange an existing (or last stored) token for the document
//   - probe      Check that the peer is reachable
//   - tokens     List stored link tokens
//
// # Implementation
//
// The root command resolves configuration (environment, optional .env file,
// then flags) before any subcommand runs. Key material is loaded per command
// so diagnostics like probe work without keys, and a misconfigured key fails
// before any handshake traffic.
package commands
