// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"fmt"
	"strings"
)

// Dockerfile renders the build manifest for the recipe. The step order is
// part of the contract: the dependency manifest is copied and installed
// before the application source, so a missing manifest aborts the build
// before the source-copy step and unchanged manifests keep their layer cache.
func (r Recipe) Dockerfile() string {
	res := r.resolved()

	var sb strings.Builder

	fmt.Fprintf(&sb, "FROM %s\n\n", res.BaseImage)
	fmt.Fprintf(&sb, "WORKDIR %s\n\n", res.WorkDir)

	if len(res.SystemPackages) > 0 {
		sb.WriteString("RUN apt-get update && \\\n")
		fmt.Fprintf(&sb, "    apt-get install -y --no-install-recommends %s && \\\n",
			strings.Join(res.SystemPackages, " "))
		sb.WriteString("    rm -rf /var/lib/apt/lists/*\n\n")
	}

	fmt.Fprintf(&sb, "COPY %s .\n\n", res.Manifest)
	fmt.Fprintf(&sb, "RUN pip install --no-cache-dir --upgrade -r %s\n\n", res.Manifest)

	sb.WriteString("COPY . .\n\n")

	fmt.Fprintf(&sb, "EXPOSE %s\n\n", res.Port)

	// The launch script is generated at build time and never mutated after.
	fmt.Fprintf(&sb, "RUN printf '%%s\\n' '%s' > %s && \\\n", res.launchLine(), res.ScriptName)
	fmt.Fprintf(&sb, "    chmod +x %s\n\n", res.ScriptName)

	fmt.Fprintf(&sb, "CMD [\"sh\", %q]\n", res.ScriptName)

	return sb.String()
}
