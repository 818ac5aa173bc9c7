// Package module loads remote program units behind a sandboxed export contract.
//
// A module is Lua source evaluated in an isolated gopher-lua state that is
// given three bindings, mirroring CommonJS:
//
//	local greet = require("greeting")   -- only whitelisted modules
//	exports.version = "1.0"
//	function exports.render(data)
//	    return greet.hello(data.name)
//	end
//
// Assigning module.exports replaces the export value entirely:
//
//	module.exports = function(data) return "hi " .. data.name end
//
// The loaded unit is exposed as [Exports]: values are converted to Go types,
// functions become [Function] values, and [Exports.Call] invokes an exported
// function by name (or the export value itself when name is empty).
//
// # Sandbox
//
// Only the base, table, string and math libraries are opened. File, OS, debug
// and package access are unavailable, dofile/loadfile/load/loadstring are
// removed, and require only resolves the standard libraries above plus Go
// modules registered with [WithGoModule]. Every evaluation and call runs with
// a deadline (see [WithTimeout]).
//
// # Errors
//
// Syntax and runtime failures during evaluation are returned as errors
// matching [ErrExecution]; they never panic the caller.
package module
