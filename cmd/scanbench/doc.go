/*
Command scanbench exercises the scan engine end to end against a
synthetic in-process byte buffer — there is no real process attach, no
OS-specific memory queryer, and no persistence. It builds a buffer of
the requested size, seeds it with a repeating counter pattern in the
width of -type (u32 by default),
attaches a session.Coordinator to it through memquery.Fake, runs one
NewScan and (optionally) one NextScan, and prints the surviving filter
count after each.

Usage:

	scanbench -size=65536 -value=7 -next=unchanged
*/
package main
