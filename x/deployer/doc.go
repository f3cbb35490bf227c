/*
Package deployer instantiates accounting units and diversifiers at
deterministic addresses derived from the deploying principal and a salt.

Code images are installed once and referenced by their sha256 hash. Every
deployed contract is recorded together with its kind, so that units can be
resolved by address regardless of their kind.

DeployNetwork deploys a whole graph of units in a single operation. All
addresses are derived first, then every unit is initialized with shares
that may reference other units of the same network by their descriptor
id. The whole deployment fails if any step fails.
*/
package deployer
