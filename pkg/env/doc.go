package env

/*
Package env reads and writes the engine's environment file.

The file is a flat list of KEY=VALUE lines:

    VULKAN_LIB=/work/wfn_eng/lib/vulkan/macOS/lib/libvulkan.1.dylib
    MOLTENVK_ICD=/work/wfn_eng/lib/vulkan/macOS/share/vulkan/icd.d/MoltenVK_icd.json
    EXPLICIT_LAYER=/work/wfn_eng/lib/vulkan/macOS/share/vulkan/explicit_layer.d

There is no header, no comments and no quoting. Values are written verbatim,
so a value containing '=' survives (the first '=' splits key from value) but a
value containing a newline does not.

Keys whose file was not found are written according to an AbsentPolicy:
"empty" writes KEY= and "omit" leaves the line out.

Basic Usage:

    entries := env.FromResolved(resolved, env.AbsentEmpty)
    if err := env.Write("/work/wfn_eng/config.env", entries); err != nil {
        return err
    }

    back, err := env.Read("/work/wfn_eng/config.env")
*/
