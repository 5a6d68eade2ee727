/*
Package api holds the wire types and server configuration shared by the
interface registry HTTP server, its handler and its clients.

The routes themselves live in the interfacehandler subpackage:

  - interfacehandler.Handler registers routes on a chi.Router
  - interfacehandler.Client implements InterfaceRegistryProvider over HTTP

All request and response bodies are JSON. Interface IDs are encoded as
0x-prefixed hex strings:

	{"interface_id":"0x01ffc9a7","supported":true}
*/
package api
