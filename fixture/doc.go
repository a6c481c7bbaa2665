/*
Package fixture loads route tables for the fetch simulator from YAML files.

A fixture names an optional timeout ceiling in milliseconds and a set of routes
written the same way as route.Definition values:

	timeout: 20000
	routes:
	  /users:
	    get:
	      body: [{name: alice}]
	      expect: {status: 200}
	      wait: 150
	    post:
	      body: created
	      expect: {status: 201, statusText: Created}

Apply raises or lowers the ceiling first and then replaces the simulator's
routes, so waits above the default ceiling load as long as the fixture allows
them.
*/
package fixture
