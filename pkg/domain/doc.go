/*
Package domain contains the core types of the menu-flow engine: requests and
responses as they cross the gateway, menus and their ordered action sets, the
typed session document, pagination state, and the reserved menu names the
engine owns.

Types here carry no behavior beyond what their own data requires. Anything
that touches storage, rendering, or hook dispatch lives in the surrounding
packages.
*/
package domain
