package lattelab

// OpenCL kernel sources. The program builder (program.go) prepends the
// numeric defines (NX, NY, NZ, N, Q, D, flag constants), the lattice and
// precision tokens and the generated velocity-set tables before compiling,
// so inner loops unroll over a constant Q.

// kernelPreludeSrc defines the storage type of the population buffers and
// the load/store conversions for the selected precision mode.
const kernelPreludeSrc = `
#if defined(FP16S) || defined(FP16C)
#pragma OPENCL EXTENSION cl_khr_fp16 : enable
#endif

#if defined(FP16S)
typedef half fpxx;
#define load_pop(f, i) vload_half((i), (f))
#define store_pop(f, i, v) vstore_half_rte((float)(v), (i), (f))
#elif defined(FP16C)
typedef half fpxx;
#define load_pop(f, i) ((f)[i])
#define store_pop(f, i, v) ((f)[i] = (half)(v))
#else
typedef float fpxx;
#define load_pop(f, i) ((f)[i])
#define store_pop(f, i, v) ((f)[i] = (v))
#endif

#if defined(FP16C)
typedef half calc_t;
#else
typedef float calc_t;
#endif
`

// kernelCommonSrc holds the equilibrium distribution shared by both kernels:
// f_eq_q = rho * w[q] * (1 + 3(c·u) + 4.5(c·u)^2 - 1.5(u·u)).
const kernelCommonSrc = `
calc_t f_eq(const int q, const calc_t rho, const calc_t ux, const calc_t uy, const calc_t uz) {
    const calc_t cu = (calc_t)c[q][0] * ux + (calc_t)c[q][1] * uy + (calc_t)c[q][2] * uz;
    const calc_t uu = ux * ux + uy * uy + uz * uz;
    return rho * (calc_t)w[q]
        * ((calc_t)1.0f + (calc_t)3.0f * cu + (calc_t)4.5f * cu * cu - (calc_t)1.5f * uu);
}
`

// kernelEquilibriumSrc initializes the read buffer of step 0 from the
// uploaded density and velocity.
const kernelEquilibriumSrc = `
__kernel void equilibrium(
    __global fpxx* f,
    __global const float* rho,
    __global const float* u)
{
    const int n = get_global_id(0);
    if (n >= N) {
        return;
    }
    const calc_t r  = (calc_t)rho[n];
    const calc_t vx = (calc_t)u[3 * n];
    const calc_t vy = (calc_t)u[3 * n + 1];
    const calc_t vz = (calc_t)u[3 * n + 2];
    for (int q = 0; q < Q; q++) {
        store_pop(f, q * N + n, f_eq(q, r, vx, vy, vz));
    }
}
`

// kernelStreamCollideSrc is the fused pull-streaming + BGK collision kernel.
// The step index t selects the read/write roles of the ping-pong pair.
const kernelStreamCollideSrc = `
__kernel void stream_collide(
    __global fpxx* f,
    __global fpxx* f_new,
    __global float* rho,
    __global float* u,
    __global const uchar* flags,
    const float omega,
    const int t)
{
    const int n = get_global_id(0);
    if (n >= N) {
        return;
    }
    const uchar flag = flags[n];
    if (flag == FLAG_SOLID) {
        return;
    }

    __global fpxx* fr = (t % 2 == 0) ? f : f_new;
    __global fpxx* fw = (t % 2 == 0) ? f_new : f;

    const int x = n % NX;
    const int y = (n / NX) % NY;
    const int z = n / (NX * NY);

    // Pull streaming with periodic wrap; solid upwind neighbors reflect the
    // opposite population of this node (bounce-back).
    calc_t pop[Q];
    for (int q = 0; q < Q; q++) {
        const int xp = (x - c[q][0] + NX) % NX;
        const int yp = (y - c[q][1] + NY) % NY;
        const int zp = (z - c[q][2] + NZ) % NZ;
        const int np = zp * NX * NY + yp * NX + xp;
        if (flags[np] == FLAG_SOLID) {
            pop[q] = load_pop(fr, opposite[q] * N + n);
        } else {
            pop[q] = load_pop(fr, q * N + np);
        }
    }

    // Moments accumulate in float regardless of the compute precision.
    float rho_n = 0.0f;
    float ux = 0.0f;
    float uy = 0.0f;
    float uz = 0.0f;
    for (int q = 0; q < Q; q++) {
        const float fq = (float)pop[q];
        rho_n += fq;
        ux += (float)c[q][0] * fq;
        uy += (float)c[q][1] * fq;
        uz += (float)c[q][2] * fq;
    }
    if (rho_n > 1e-10f) {
        ux /= rho_n;
        uy /= rho_n;
        uz /= rho_n;
    } else {
        ux = 0.0f;
        uy = 0.0f;
        uz = 0.0f;
    }

    if (flag == FLAG_EQ) {
        // Prescribed nodes: rho/u are inputs and stay untouched; the
        // populations are forced to their equilibrium.
        const calc_t r  = (calc_t)rho[n];
        const calc_t vx = (calc_t)u[3 * n];
        const calc_t vy = (calc_t)u[3 * n + 1];
        const calc_t vz = (calc_t)u[3 * n + 2];
        for (int q = 0; q < Q; q++) {
            store_pop(fw, q * N + n, f_eq(q, r, vx, vy, vz));
        }
        return;
    }

    rho[n] = rho_n;
    u[3 * n]     = ux;
    u[3 * n + 1] = uy;
    u[3 * n + 2] = uz;

    const calc_t r  = (calc_t)rho_n;
    const calc_t vx = (calc_t)ux;
    const calc_t vy = (calc_t)uy;
    const calc_t vz = (calc_t)uz;
    const calc_t om = (calc_t)omega;
    for (int q = 0; q < Q; q++) {
        const calc_t fq = pop[q];
        store_pop(fw, q * N + n, fq - om * (fq - f_eq(q, r, vx, vy, vz)));
    }
}
`
