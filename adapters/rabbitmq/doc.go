/*
Package rabbitmq provides a RabbitMQ adapter for the notification bus.
It publishes notifications to a topic exchange routed by channel, includes an
auto-reconnect publisher, and supports optional header propagation via a bus.HeaderPropagator.
*/
package rabbitmq
