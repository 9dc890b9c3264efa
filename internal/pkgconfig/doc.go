// Package pkgconfig holds the package catalog: the declared tree of
// categories, packages and binders that registrations are reconciled
// against.
//
// The catalog is persisted as JSON:
//
//	{
//	  "package_category_hash": "<sha256 of package_categories>",
//	  "package_categories": [{
//	    "name": "java",
//	    "packages": [{
//	      "name": "jdk21",
//	      "envs": {"JAVA_HOME": "/opt/jdk-21"},
//	      "binders": [{"target_name": "java", "target_path": "/opt/jdk-21/bin", "execution_path": "/opt/select/java"}],
//	      "included_paths": [],
//	      "excluded_paths": []
//	    }],
//	    "default_package": 0
//	  }]
//	}
//
// The hash is a dirty check only; [Validate] always walks the whole tree.
// Mutation goes through a [Locker], which hands out the catalog for writing
// only while unlocked.
package pkgconfig
