package strip

import (
	"bufio"
	"fmt"
	"io"
)

// WriteOBJ writes the meshes as Wavefront OBJ, one object per mesh.
func WriteOBJ(w io.Writer, meshes []*Mesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# midgard-path strip mesh")

	offset := 1 // OBJ indices are 1-based and global
	for n, m := range meshes {
		fmt.Fprintf(bw, "o strip_%d\n", n)
		for _, v := range m.Vertices {
			fmt.Fprintf(bw, "v %g %g %g\n", v.Position[0], v.Position[1], v.Position[2])
		}
		for _, v := range m.Vertices {
			fmt.Fprintf(bw, "vt %g %g\n", v.TexCoord[0], v.TexCoord[1])
		}
		if m.HasNormals {
			for _, v := range m.Vertices {
				fmt.Fprintf(bw, "vn %g %g %g\n", v.Normal[0], v.Normal[1], v.Normal[2])
			}
		}
		for t := 0; t+2 < len(m.Indices); t += 3 {
			a := int(m.Indices[t]) + offset
			b := int(m.Indices[t+1]) + offset
			c := int(m.Indices[t+2]) + offset
			if m.HasNormals {
				fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
			} else {
				fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d\n", a, a, b, b, c, c)
			}
		}
		offset += len(m.Vertices)
	}
	return bw.Flush()
}
