// Package lineserver exposes a kvfile store over a line-oriented TCP
// protocol.
//
// Each request is one line of whitespace-separated words terminated by LF
// (an optional CR before it is ignored); each reply is one CRLF-terminated
// line. Commands are case-insensitive:
//
//	PING                     PONG
//	SET <key> <value...>     OK
//	GET <key>                value | nil
//	DEL <key>                OK | nil
//	EXISTS <key>             1 | 0
//	KEYS                     space-separated keys
//	COUNT                    number of keys
//	DUMP                     OK
//	LCREATE <name>           OK
//	LPUSH <name> <value...>  new length | nil
//	LGET <name> <index>      element | nil
//	LLEN <name>              length
//	LPOP <name> <index>      element | nil
//	LDEL <name>              previous length
//	QUIT                     BYE
//
// Failures are reported as "ERR <message>"; store failures carry their
// kind, as in "ERR io dump: rename temp file: ...". All connections share one store
// guarded by a mutex.
package lineserver
