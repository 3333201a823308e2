// Package envelope seals and opens the encrypted message blobs exchanged
// during the handshake.
//
// An envelope is built in three layers:
//
//  1. Canonical JSON of the message mapping (keys sorted, no incidental
//     whitespace), so equal logical messages always produce identical bytes.
//  2. OpenPGP encryption of that plaintext to the recipient's public key,
//     ASCII armored as a "PGP MESSAGE" block.
//  3. Base64 of the armored text, making the blob transport-safe.
//
// The codec is a leaf: it knows nothing about sessions, transports, or key
// files. Open expects an already-unlocked keyring copy and never retains it.
package envelope
