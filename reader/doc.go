/*
Package reader describes the text protocol spoken by the RFID card reader
bridge that runs next to a cashier terminal.

The terminal opens a websocket to the bridge, sends Handshake, then repeats a
Command until the bridge answers with a JSON Response. Frames that merely echo
a command are recognised by their first byte and skipped.
*/
package reader
