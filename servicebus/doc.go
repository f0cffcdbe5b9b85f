/*
Package servicebus provides a thin in-process notification bus addressed by channel.
It fans notifications out to local subscribers and forwards them to a transport
adapter while remaining decoupled from concrete brokers via interfaces.
*/
package servicebus
